package auth

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrorReporter surfaces a user-facing error message
type ErrorReporter interface {
	Report(message string)
}

// LogReporter reports messages to a logrus logger
type LogReporter struct {
	logger *logrus.Logger
	fields logrus.Fields
}

// NewLogReporter creates a reporter that logs at warning level with fields
func NewLogReporter(logger *logrus.Logger, fields logrus.Fields) *LogReporter {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogReporter{logger: logger, fields: fields}
}

func (r *LogReporter) Report(message string) {
	r.logger.WithFields(r.fields).Warn(message)
}

// Collector keeps reported messages in order, for returning them to the
// caller that triggered them.
type Collector struct {
	mu       sync.Mutex
	messages []string
}

func (c *Collector) Report(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, message)
}

// Messages returns a copy of everything reported so far
func (c *Collector) Messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.messages))
	copy(out, c.messages)
	return out
}

// Multi fans a report out to several reporters
type Multi []ErrorReporter

func (m Multi) Report(message string) {
	for _, r := range m {
		r.Report(message)
	}
}
