// Package notify carries human-readable outcome messages from the
// navigation core to whatever surface renders them. The core decides
// when to notify and with what level; rendering belongs to the caller.
package notify

import "log"

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

type Sink interface {
	Notify(level Level, message string)
}

type logSink struct{}

func (logSink) Notify(level Level, message string) {
	log.Printf("notify [%s] %s", level, message)
}

// NewLogSink writes notifications to the process log. Useful as the
// default sink for headless deployments.
func NewLogSink() Sink { return logSink{} }

type discard struct{}

func (discard) Notify(Level, string) {}

// Discard swallows every notification.
func Discard() Sink { return discard{} }
