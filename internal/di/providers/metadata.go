package providers

import (
	"github.com/samber/do/v2"

	"github.com/shelfnote/shelfnote-server/internal/config"
	"github.com/shelfnote/shelfnote-server/internal/logger"
	"github.com/shelfnote/shelfnote-server/internal/metadata/cache"
	"github.com/shelfnote/shelfnote-server/internal/metadata/openlibrary"
)

// MetadataCacheHandle wraps the Badger response cache with shutdown capability.
type MetadataCacheHandle struct {
	*cache.Cache
}

// Shutdown implements do.Shutdownable.
func (h *MetadataCacheHandle) Shutdown() error {
	return h.Close()
}

// ProvideMetadataCache provides the upstream response cache.
func ProvideMetadataCache(i do.Injector) (*MetadataCacheHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	c, err := cache.Open(cfg.Data.CachePath(), cfg.Metadata.CacheTTL, log.Logger)
	if err != nil {
		return nil, err
	}
	return &MetadataCacheHandle{Cache: c}, nil
}

// OpenLibraryClientHandle wraps the Open Library client with shutdown capability.
type OpenLibraryClientHandle struct {
	*openlibrary.Client
}

// Shutdown implements do.Shutdownable.
func (h *OpenLibraryClientHandle) Shutdown() error {
	h.Client.Close()
	return nil
}

// ProvideOpenLibraryClient provides the book metadata client.
func ProvideOpenLibraryClient(i do.Injector) (*OpenLibraryClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	cacheHandle := do.MustInvoke[*MetadataCacheHandle](i)

	client := openlibrary.New(openlibrary.Config{
		BaseURL:           cfg.Metadata.BaseURL,
		CoversURL:         cfg.Metadata.CoversURL,
		RequestsPerSecond: cfg.Metadata.RequestsPerSecond,
	}, cacheHandle.Cache, log.Logger)

	log.Info("Open Library client initialized",
		"base_url", cfg.Metadata.BaseURL,
		"requests_per_second", cfg.Metadata.RequestsPerSecond,
	)

	return &OpenLibraryClientHandle{Client: client}, nil
}
