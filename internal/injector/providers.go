package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/chitin/internal/config"
	"github.com/zeusync/chitin/internal/core/events/bus"
	"github.com/zeusync/chitin/internal/core/observability/log"
	"github.com/zeusync/chitin/internal/core/world"
	"github.com/zeusync/chitin/internal/server"
)

// ProviderSet builds a world and a frame server from an engine config.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideServerConfig,
	bus.New,
	world.New,
	server.NewServer,
)

// App is everything cmd/server runs.
type App struct {
	World  *world.World
	Server *server.Server
}

func NewApp(w *world.World, s *server.Server) *App {
	return &App{World: w, Server: s}
}

// ProvideLogger flushes the logger on cleanup.
func ProvideLogger(cfg *config.Config) (log.Log, func()) {
	l := log.New(cfg.LogLevel())
	return l, func() { _ = l.Sync() }
}

func ProvideServerConfig(cfg *config.Config) config.ServerConfig {
	return cfg.Server
}
