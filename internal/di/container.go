// Package di provides dependency injection configuration for the Shelfnote server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/shelfnote/shelfnote-server/internal/auth"
	"github.com/shelfnote/shelfnote-server/internal/config"
	"github.com/shelfnote/shelfnote-server/internal/di/providers"
	"github.com/shelfnote/shelfnote-server/internal/logger"
	"github.com/shelfnote/shelfnote-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Storage
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideMetadataCache)

	// Upstream metadata
	do.Provide(injector, providers.ProvideOpenLibraryClient)

	// Auth
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideInsightsService)
	do.Provide(injector, providers.ProvideLibraryService)
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideGoalService)
	do.Provide(injector, providers.ProvideBookService)

	// Workers
	do.Provide(injector, providers.ProvideMaintenanceJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services. Providers are lazy, so this is what
// opens the database and starts the server.
func Bootstrap(injector *do.RootScope) error {
	invokes := []func() error{
		func() error { _, err := do.Invoke[*config.Config](injector); return err },
		func() error { _, err := do.Invoke[*logger.Logger](injector); return err },
		func() error { _, err := do.Invoke[providers.AuthKey](injector); return err },
		func() error { _, err := do.Invoke[*providers.StoreHandle](injector); return err },
		func() error { _, err := do.Invoke[*providers.SearchIndexHandle](injector); return err },
		func() error { _, err := do.Invoke[*providers.MetadataCacheHandle](injector); return err },
		func() error { _, err := do.Invoke[*providers.OpenLibraryClientHandle](injector); return err },
		func() error { _, err := do.Invoke[*auth.TokenService](injector); return err },
		func() error { _, err := do.Invoke[*service.InsightsService](injector); return err },
		func() error { _, err := do.Invoke[*service.LibraryService](injector); return err },
		func() error { _, err := do.Invoke[*service.SessionService](injector); return err },
		func() error { _, err := do.Invoke[*service.GoalService](injector); return err },
		func() error { _, err := do.Invoke[*service.BookService](injector); return err },
		func() error { _, err := do.Invoke[*providers.MaintenanceJob](injector); return err },
		func() error { _, err := do.Invoke[*providers.HTTPServerHandle](injector); return err },
	}
	for _, invoke := range invokes {
		if err := invoke(); err != nil {
			return err
		}
	}

	providers.TriggerSearchReindexIfNeeded(injector)
	return nil
}
