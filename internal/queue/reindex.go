package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os/exec"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rabbitmq/amqp091-go"

	"github.com/codelens-dev/codelens/internal/util"
	"github.com/codelens-dev/codelens/pkg/logger"
)

// ReindexJob describes one reindex request for a collection. Path points at
// the codebase root on the worker's filesystem.
type ReindexJob struct {
	CorrelationID string `json:"correlation_id"`
	Collection    string `json:"collection"`
	Path          string `json:"path"`
	Incremental   bool   `json:"incremental"`
	RequestedAt   string `json:"requested_at"`
}

// ReindexStatus is the progress snapshot broadcast to connected clients
// while a job moves through the pipeline.
type ReindexStatus struct {
	CorrelationID string `json:"correlation_id"`
	Collection    string `json:"collection"`
	State         string `json:"state"`
	Error         string `json:"error,omitempty"`
	DurationMs    int64  `json:"duration_ms,omitempty"`
}

const (
	ReindexPending   = "pending"
	ReindexRunning   = "running"
	ReindexCompleted = "completed"
	ReindexFailed    = "failed"
)

// EnqueueReindex publishes a reindex job and returns its correlation ID.
func EnqueueReindex(ch *amqp091.Channel, collection, path string, incremental bool) (string, error) {
	correlationID, err := gonanoid.New()
	if err != nil {
		return "", err
	}

	job := ReindexJob{
		CorrelationID: correlationID,
		Collection:    collection,
		Path:          path,
		Incremental:   incremental,
		RequestedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.Marshal(job)
	if err != nil {
		return "", err
	}

	if err := PublishFIFO(ch, ReindexQueue, data); err != nil {
		return "", err
	}
	logger.Info("[Queue] Enqueued reindex job", "collection", collection, "correlation_id", correlationID)
	return correlationID, nil
}

// ProcessReindexMessage runs the external indexer for one job. The indexer
// binary writes entities and relations straight into the store; the worker
// only supervises the run and reports progress.
func ProcessReindexMessage(ctx context.Context, msgBody string) error {
	var job ReindexJob
	if err := json.Unmarshal([]byte(msgBody), &job); err != nil {
		return fmt.Errorf("invalid reindex message: %w", err)
	}
	if job.Collection == "" || job.Path == "" {
		return fmt.Errorf("reindex message missing collection or path")
	}

	indexerBin := util.GetEnvString("INDEXER_BIN", "codelens-indexer")
	maxTries := int(util.GetEnvNumeric("INDEXER_MAX_TRIES", 2))

	notifyStatus(ReindexStatus{
		CorrelationID: job.CorrelationID,
		Collection:    job.Collection,
		State:         ReindexRunning,
	})

	start := time.Now()
	err := util.RetryErrWithContext(ctx, maxTries, func(ctx context.Context) error {
		args := []string{"--collection", job.Collection, "--path", job.Path}
		if job.Incremental {
			args = append(args, "--incremental")
		}

		cmd := exec.CommandContext(ctx, indexerBin, args...)
		out, err := cmd.CombinedOutput()
		if err != nil {
			logger.Error("[Queue] Indexer run failed",
				"collection", job.Collection,
				"err", err,
				"output", string(out),
			)
			return err
		}
		return nil
	})
	durationMs := time.Since(start).Milliseconds()

	if err != nil {
		notifyStatus(ReindexStatus{
			CorrelationID: job.CorrelationID,
			Collection:    job.Collection,
			State:         ReindexFailed,
			Error:         err.Error(),
			DurationMs:    durationMs,
		})
		return err
	}

	logger.Info("[Queue] Reindex completed", "collection", job.Collection, "duration_ms", durationMs)
	notifyStatus(ReindexStatus{
		CorrelationID: job.CorrelationID,
		Collection:    job.Collection,
		State:         ReindexCompleted,
		DurationMs:    durationMs,
	})
	return nil
}

// notifyStatus forwards a status snapshot to the HTTP server's broadcast
// endpoint, which relays it to the collection's websocket subscribers. The
// worker and server are separate processes. Failures are logged and
// swallowed; progress reporting never fails a job.
func notifyStatus(status ReindexStatus) {
	base := util.GetEnv("BROADCAST_URL")
	if base == "" {
		return
	}

	payload, err := json.Marshal(map[string]any{
		"type": "reindex_status",
		"data": status,
	})
	if err != nil {
		logger.Error("[Queue] Failed to marshal reindex status", "err", err)
		return
	}

	target := base + "/ws/broadcast/" + url.PathEscape(status.Collection)
	err = util.RetryErr(2, func() error {
		res, err := http.Post(target, "application/json", bytes.NewReader(payload))
		if err != nil {
			return err
		}
		defer res.Body.Close()
		if res.StatusCode >= 300 {
			return fmt.Errorf("broadcast rejected with status %d", res.StatusCode)
		}
		return nil
	})
	if err != nil {
		logger.Warn("[Queue] Failed to report reindex status", "err", err)
	}
}
