package ocr

import (
	"context"
	"time"

	"vendor-backend/internal/shared/metrics"
	"vendor-backend/internal/shared/telemetry"
)

// DefaultTimeout bounds one recognizer call.
const DefaultTimeout = 15 * time.Second

// Adapter wraps a Recognizer behind a hard deadline. OCR is best-effort
// enrichment: a flaky provider must never block application submission, so
// timeouts and provider errors degrade to an empty Recognition and are only
// visible in logs and metrics.
type Adapter struct {
	recognizer Recognizer
	timeout    time.Duration
}

// NewAdapter constructs an Adapter; a non-positive timeout falls back to
// DefaultTimeout.
func NewAdapter(recognizer Recognizer, timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Adapter{recognizer: recognizer, timeout: timeout}
}

// Extract races one recognizer call against the deadline and returns whichever
// settles first. The losing branch is abandoned, not cancelled: the result
// channel is buffered so a late provider response is sent and discarded
// without leaking the goroutine.
func (a *Adapter) Extract(ctx context.Context, locator string) Recognition {
	type outcome struct {
		rec Recognition
		err error
	}
	results := make(chan outcome, 1)

	go func() {
		rec, err := a.recognizer.Recognize(ctx, locator)
		results <- outcome{rec: rec, err: err}
	}()

	timer := time.NewTimer(a.timeout)
	defer timer.Stop()

	select {
	case out := <-results:
		if out.err != nil {
			metrics.IncOCRTimeout()
			telemetry.Warn("ocr.degraded", map[string]any{
				"locator": locator,
				"reason":  "provider error",
				"error":   out.err.Error(),
			})
			return Recognition{}
		}
		return out.rec
	case <-timer.C:
		metrics.IncOCRTimeout()
		telemetry.Warn("ocr.degraded", map[string]any{
			"locator":    locator,
			"reason":     "deadline exceeded",
			"timeout_ms": a.timeout.Milliseconds(),
		})
		return Recognition{}
	case <-ctx.Done():
		metrics.IncOCRTimeout()
		telemetry.Warn("ocr.degraded", map[string]any{
			"locator": locator,
			"reason":  "request cancelled",
			"error":   ctx.Err().Error(),
		})
		return Recognition{}
	}
}
