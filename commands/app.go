package commands

import (
	"github.com/camden-git/galleryprep/config"
	"github.com/camden-git/galleryprep/gallery"
	"github.com/camden-git/galleryprep/manifest"
	"github.com/camden-git/galleryprep/media"
	"github.com/camden-git/galleryprep/publish"
	"github.com/camden-git/galleryprep/repository"
	"github.com/camden-git/galleryprep/workers"
	"go.uber.org/zap"
)

// App holds the components every command is built from.
type App struct {
	Config     config.Config
	Logger     *zap.Logger
	Registry   *repository.RegistryRepository
	Normalizer *media.Normalizer
	Converter  *media.Converter
	Manifests  *manifest.Builder
	Projector  *publish.Projector
	Engine     *gallery.Engine
}

// NewApp wires the components for cfg.
func NewApp(cfg config.Config, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	exts := media.Extensions(cfg.ImageExtensions)
	codec := media.NewCodec(cfg.JPEGQuality, cfg.WebPQuality)
	pool := workers.NewPool(cfg.ResizeWorkers, logger)

	registry := repository.NewRegistryRepository(cfg.RegistryPath, logger)
	normalizer := media.NewNormalizer(media.Bounds{MaxWidth: cfg.MaxWidth, MaxHeight: cfg.MaxHeight}, exts, codec, pool, logger)
	converter := media.NewConverter(codec, pool, logger)
	manifests := manifest.NewBuilder(exts, cfg.ManifestName, logger)
	projector := publish.NewProjector(cfg.ImagesRoot, cfg.ListingPath, cfg.SecretsPath, manifests, logger)
	engine := gallery.NewEngine(cfg.ImagesRoot, registry, normalizer, manifests, projector, logger)

	return &App{
		Config:     cfg,
		Logger:     logger,
		Registry:   registry,
		Normalizer: normalizer,
		Converter:  converter,
		Manifests:  manifests,
		Projector:  projector,
		Engine:     engine,
	}
}
