package logging

import (
	"errors"

	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
)

var _ log.Hook = (*SentryHook)(nil)

// SentryHook sends log entries of the given levels to sentry.
type SentryHook struct {
	levels  []log.Level
	capture func(entry *log.Entry)
}

func NewSentryHook(levels []log.Level) *SentryHook {
	return &SentryHook{
		levels:  levels,
		capture: captureEntry,
	}
}

func (h *SentryHook) Levels() []log.Level {
	return h.levels
}

func (h *SentryHook) Fire(entry *log.Entry) error {
	h.capture(entry)
	return nil
}

func captureEntry(entry *log.Entry) {
	if err, ok := entry.Data[log.ErrorKey].(error); ok {
		sentry.CaptureException(err)
		return
	}
	sentry.CaptureException(errors.New(entry.Message))
}
