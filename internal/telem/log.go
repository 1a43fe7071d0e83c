package telem

import (
	"github.com/sirupsen/logrus"
)

// LogSink writes records to a logrus logger.
type LogSink struct {
	Logger *logrus.Logger
}

// NewLogSink returns a sink writing to logger, or to the standard logrus
// logger when logger is nil.
func NewLogSink(logger *logrus.Logger) *LogSink {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogSink{Logger: logger}
}

// Telemetry logs the sample at debug level; telemetry is high rate.
func (l *LogSink) Telemetry(s Sample) {
	l.Logger.WithFields(logrus.Fields{
		"component": s.Component,
		"channel":   s.Channel,
		"value":     s.Value,
	}).Debug("telemetry")
}

// Event logs the record at the level matching its severity.
func (l *LogSink) Event(e Event) {
	entry := l.Logger.WithFields(logrus.Fields{
		"component": e.Component,
		"event":     e.Name,
		"severity":  string(e.Severity),
	})
	entry.Log(Level(e.Severity), e.Message)
}

// Level maps an event severity onto a logrus level.
func Level(s Severity) logrus.Level {
	switch s {
	case WarningHi:
		return logrus.ErrorLevel
	case WarningLo:
		return logrus.WarnLevel
	case Diagnostic:
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}
