package main

import (
	"github.com/codelens-dev/codelens/internal/server"
	"github.com/codelens-dev/codelens/internal/util"
	"github.com/codelens-dev/codelens/pkg/logger"
	"github.com/codelens-dev/codelens/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
