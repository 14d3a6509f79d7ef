package cli

import (
	"time"

	"github.com/charmbracelet/log"
)

// LevelForVerbosity maps the count of --verbose flags to a log level:
// 0 is info, 1 is debug, 2 or more additionally logs raw request and
// response payloads.
func LevelForVerbosity(count int) log.Level {
	switch {
	case count >= 2:
		return LogTrace
	case count == 1:
		return LogDebug
	default:
		return LogInfo
	}
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
// The returned progress should call done when the operation completes.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// The duration is rounded to the nearest millisecond.
// Example output: "Fetched 42 institutions (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
