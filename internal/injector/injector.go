//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"
	"github.com/plus3/seascene/internal/app"
	"github.com/plus3/seascene/internal/config"
)

// Initialize builds the application context for cfg.
func Initialize(cfg *config.Config) (*app.Context, error) {
	wire.Build(app.ProviderSet)
	return nil, nil
}
