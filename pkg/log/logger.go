// Package log configures the single github.com/op/go-logging backend shared
// by pkg/bvh and cmd/sbvhtool. Unlike a general-purpose renderer, this
// repository only ever logs at four levels — Debug for per-build
// diagnostics (pkg/bvh/sbvh.go's node/leaf/split counters), Info for the
// CLI's mesh-loading progress, Notice for the CLI's final stats table, and
// Error for the CLI's failure report — so there is no Logger interface to
// satisfy and no Warning level to wire:
// callers hold the concrete *logging.Logger New returns and call exactly the
// methods they use.
package log

import (
	"io"
	"os"

	"github.com/op/go-logging"
)

// The levels cmd/sbvhtool's -v/-vv flags switch between.
const (
	Debug  = logging.DEBUG
	Info   = logging.INFO
	Notice = logging.NOTICE
	Error  = logging.ERROR
)

// format mirrors the source's colored, timestamped layout.
var format = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

var sink logging.LeveledBackend

// New returns a logger tagged with name, which shows up in the formatted
// output as %{module}.
func New(name string) *logging.Logger {
	return logging.MustGetLogger(name)
}

// SetSink redirects log output.
func SetSink(w io.Writer) {
	sink = logging.AddModuleLevel(logging.NewBackendFormatter(logging.NewLogBackend(w, "", 0), format))
	sink.SetLevel(Notice, "")
	logging.SetBackend(sink)
}

// SetLevel sets the minimum level that reaches the sink.
func SetLevel(level logging.Level) {
	sink.SetLevel(level, "")
}

func init() {
	SetSink(os.Stdout)
	SetLevel(Notice)
}
