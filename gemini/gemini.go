// Package gemini provides AI-backed transformer implementations using
// Google Gemini: markdown cleanup, snippet extraction, and embeddings.
package gemini

import (
	"strings"

	"github.com/fwojciec/techdocs"
)

// Models used by this package.
const (
	model          = "gemini-2.5-flash"
	embeddingModel = "gemini-embedding-001"
)

// wrapErr maps upstream rate-limit responses to ERATELIMIT so callers can
// apply backoff. Other errors pass through unchanged.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "RESOURCE_EXHAUSTED") || strings.Contains(msg, "429") {
		return techdocs.Errorf(techdocs.ERATELIMIT, "gemini rate limited: %v", err)
	}
	return err
}
