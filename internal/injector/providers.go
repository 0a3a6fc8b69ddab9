package injector

import (
	"github.com/zeusync/platformer/internal/core/observability/log"
	"github.com/zeusync/platformer/internal/runner"
	"github.com/zeusync/platformer/internal/server"
)

// Options are the process-level knobs the CLI collects from flags.
type Options struct {
	LogLevel   log.Level
	MaxViewers int
	Runner     runner.Config
}

// App is everything the CLI needs, wired together.
type App struct {
	Options Options
	Logger  log.Log
	Server  *server.HTTPServer
	Runner  *runner.Runner
}

func ProvideLogger(opts Options) log.Log {
	return log.New(opts.LogLevel)
}

func ProvideFrameHub(opts Options, logger log.Log) *server.FrameHub {
	return server.NewFrameHub(logger, opts.MaxViewers)
}

func ProvideRunnerConfig(opts Options) runner.Config {
	return opts.Runner
}
