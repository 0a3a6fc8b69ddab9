//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/platformer/internal/core/events/bus"
	"github.com/zeusync/platformer/internal/runner"
	"github.com/zeusync/platformer/internal/server"
)

func InitializeApp(opts Options) (*App, error) {
	wire.Build(
		ProvideLogger,
		bus.New,
		ProvideFrameHub,
		server.NewHTTPServer,
		ProvideRunnerConfig,
		runner.New,
		wire.Struct(new(App), "*"),
	)
	return nil, nil
}
