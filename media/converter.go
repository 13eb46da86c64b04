package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/camden-git/galleryprep/storage"
	"github.com/camden-git/galleryprep/workers"
	"go.uber.org/zap"
)

// ConvertibleExtensions are the source formats rewritten to WebP.
var ConvertibleExtensions = Extensions{".png", ".jpg", ".jpeg"}

// ErrTargetCollision is returned for sources that would share one WebP file.
var ErrTargetCollision = errors.New("several images convert to the same webp file")

// Conversion records one source file replaced by its WebP rendition.
type Conversion struct {
	Source string
	Target string
}

// Converter replaces raster images with WebP copies.
type Converter struct {
	exts   Extensions
	codec  *Codec
	pool   *workers.Pool
	logger *zap.Logger
}

func NewConverter(codec *Codec, pool *workers.Pool, logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pool == nil {
		pool = workers.NewPool(1, logger)
	}
	return &Converter{exts: ConvertibleExtensions, codec: codec, pool: pool, logger: logger.Named("converter")}
}

// ConvertFolder converts every convertible image in folder, descending into
// subdirectories when recursive is set. The source file is removed only
// after its WebP copy has been written.
func (c *Converter) ConvertFolder(ctx context.Context, folder string, recursive bool) ([]Conversion, error) {
	if info, err := os.Stat(folder); err != nil {
		return nil, fmt.Errorf("failed to open folder %s: %w", folder, err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", folder)
	}
	store, err := storage.NewLocalStorage(folder, c.logger)
	if err != nil {
		return nil, err
	}
	folder = store.BasePath()

	var paths []string
	if recursive {
		found, err := c.exts.WalkImages(folder)
		if err != nil {
			return nil, err
		}
		paths = found
	} else {
		names, err := c.exts.ListImages(folder)
		if err != nil {
			return nil, fmt.Errorf("failed to list images in %s: %w", folder, err)
		}
		for _, name := range names {
			paths = append(paths, filepath.Join(folder, name))
		}
	}

	// sources sharing a WebP name (a.jpg, a.png) are refused together
	var errs []error
	byTarget := make(map[string][]string, len(paths))
	for _, path := range paths {
		target := webpTarget(path)
		byTarget[target] = append(byTarget[target], path)
	}
	convertible := make([]string, 0, len(paths))
	for _, path := range paths {
		sources := byTarget[webpTarget(path)]
		if len(sources) > 1 {
			errs = append(errs, &workers.FileError{Path: path, Err: fmt.Errorf("%w: %s", ErrTargetCollision, strings.Join(sources, ", "))})
			continue
		}
		convertible = append(convertible, path)
	}

	var (
		mu          sync.Mutex
		conversions []Conversion
	)
	runErr := c.pool.Run(ctx, convertible, func(ctx context.Context, path string) error {
		target, err := c.convertFile(store, path)
		if err != nil {
			return err
		}
		mu.Lock()
		conversions = append(conversions, Conversion{Source: path, Target: target})
		mu.Unlock()
		return nil
	})
	if runErr != nil {
		errs = append(errs, runErr)
	}
	sort.Slice(conversions, func(i, j int) bool { return conversions[i].Source < conversions[j].Source })
	if err := errors.Join(errs...); err != nil {
		return conversions, fmt.Errorf("conversion failed: %w", err)
	}
	c.logger.Info("conversion complete", zap.String("folder", folder), zap.Int("converted", len(conversions)))
	return conversions, nil
}

func webpTarget(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".webp"
}

func (c *Converter) convertFile(store storage.Store, path string) (string, error) {
	img, err := c.codec.Decode(path)
	if err != nil {
		return "", err
	}
	target := webpTarget(path)
	if _, err := os.Stat(target); err == nil {
		c.logger.Warn("overwriting existing webp", zap.String("source", path), zap.String("target", target))
	}

	var buf bytes.Buffer
	if err := c.codec.Encode(&buf, img, ".webp"); err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if _, err := store.Save(target, &buf); err != nil {
		return "", err
	}
	if err := store.Delete(path); err != nil {
		return target, fmt.Errorf("converted %s but failed to remove it: %w", path, err)
	}
	c.logger.Debug("converted image", zap.String("source", path), zap.String("target", target))
	return target, nil
}
