package util

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const tokenEncoding = "cl100k_base"

var (
	tokenizerOnce sync.Once
	tokenizer     *tiktoken.Tiktoken
)

// CountTokens estimates the tokenizer token count of text. When the encoding
// cannot be loaded it falls back to a bytes/4 heuristic so callers always get
// a usable budget figure.
func CountTokens(text string) int {
	tokenizerOnce.Do(func() {
		enc, err := tiktoken.GetEncoding(tokenEncoding)
		if err == nil {
			tokenizer = enc
		}
	})
	if tokenizer == nil {
		return (len(text) + 3) / 4
	}
	return len(tokenizer.Encode(text, nil, nil))
}

// TruncateToTokens cuts text so that its token count does not exceed
// maxTokens. Text already within budget is returned unchanged.
func TruncateToTokens(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	tokenizerOnce.Do(func() {
		enc, err := tiktoken.GetEncoding(tokenEncoding)
		if err == nil {
			tokenizer = enc
		}
	})
	if tokenizer == nil {
		limit := maxTokens * 4
		if len(text) <= limit {
			return text
		}
		return text[:limit]
	}

	ids := tokenizer.Encode(text, nil, nil)
	if len(ids) <= maxTokens {
		return text
	}
	return tokenizer.Decode(ids[:maxTokens])
}
