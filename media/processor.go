package media

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/camden-git/galleryprep/storage"
	"github.com/camden-git/galleryprep/workers"
	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

// Bounds is the web target box. Images are fit inside it with their aspect
// ratio kept; nothing is ever upscaled.
type Bounds struct {
	MaxWidth  int
	MaxHeight int
}

// Fits reports whether a width x height image needs no resizing.
func (b Bounds) Fits(width, height int) bool {
	return width <= b.MaxWidth && height <= b.MaxHeight
}

// NormalizeResult lists what a normalization pass rewrote.
type NormalizeResult struct {
	Resized   []string
	Unchanged []string
}

// Normalizer rewrites gallery images in place so they fit Bounds. The
// rewrite is irreversible; callers confirm a full-resolution copy exists
// elsewhere first.
type Normalizer struct {
	bounds Bounds
	exts   Extensions
	codec  *Codec
	pool   *workers.Pool
	logger *zap.Logger
}

func NewNormalizer(bounds Bounds, exts Extensions, codec *Codec, pool *workers.Pool, logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pool == nil {
		pool = workers.NewPool(1, logger)
	}
	return &Normalizer{bounds: bounds, exts: exts, codec: codec, pool: pool, logger: logger.Named("normalizer")}
}

// Bounds returns the configured target box.
func (n *Normalizer) Bounds() Bounds {
	return n.bounds
}

// AlreadyWithinBounds reports whether every image directly in folder fits
// the target box. An empty folder counts as within bounds. An unreadable
// image header counts as out of bounds so that a normalization pass
// surfaces the decode failure.
func (n *Normalizer) AlreadyWithinBounds(folder string) (bool, error) {
	photos, err := n.exts.ListImages(folder)
	if err != nil {
		return false, fmt.Errorf("failed to list images in %s: %w", folder, err)
	}
	for _, name := range photos {
		info, err := n.codec.Probe(filepath.Join(folder, name))
		if err != nil {
			n.logger.Debug("cannot probe image", zap.String("file", name), zap.Error(err))
			return false, nil
		}
		if !n.bounds.Fits(info.Width, info.Height) {
			return false, nil
		}
	}
	return true, nil
}

// Normalize fits every image directly inside folder (not recursive).
func (n *Normalizer) Normalize(ctx context.Context, folder string) (NormalizeResult, error) {
	photos, err := n.exts.ListImages(folder)
	if err != nil {
		return NormalizeResult{}, fmt.Errorf("failed to list images in %s: %w", folder, err)
	}
	paths := make([]string, len(photos))
	for i, name := range photos {
		paths[i] = filepath.Join(folder, name)
	}
	return n.normalizePaths(ctx, paths)
}

// NormalizeTree fits every image anywhere below root.
func (n *Normalizer) NormalizeTree(ctx context.Context, root string) (NormalizeResult, error) {
	paths, err := n.exts.WalkImages(root)
	if err != nil {
		return NormalizeResult{}, err
	}
	return n.normalizePaths(ctx, paths)
}

func (n *Normalizer) normalizePaths(ctx context.Context, paths []string) (NormalizeResult, error) {
	var (
		mu     sync.Mutex
		result NormalizeResult
	)
	if len(paths) == 0 {
		n.logger.Info("no images to resize")
		return result, nil
	}
	n.logger.Info("resizing images", zap.Int("count", len(paths)),
		zap.Int("max_width", n.bounds.MaxWidth), zap.Int("max_height", n.bounds.MaxHeight))

	err := n.pool.Run(ctx, paths, func(ctx context.Context, path string) error {
		resized, err := n.normalizeFile(path)
		if err != nil {
			return err
		}
		mu.Lock()
		if resized {
			result.Resized = append(result.Resized, path)
		} else {
			result.Unchanged = append(result.Unchanged, path)
		}
		mu.Unlock()
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("normalization failed: %w", err)
	}
	sort.Strings(result.Resized)
	sort.Strings(result.Unchanged)
	n.logger.Info("resize complete", zap.Int("resized", len(result.Resized)), zap.Int("unchanged", len(result.Unchanged)))
	return result, nil
}

// normalizeFile returns true when the file was rewritten.
func (n *Normalizer) normalizeFile(path string) (bool, error) {
	img, err := n.codec.Decode(path)
	if err != nil {
		return false, err
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return false, fmt.Errorf("invalid image dimensions: %dx%d", b.Dx(), b.Dy())
	}
	if n.bounds.Fits(b.Dx(), b.Dy()) {
		return false, nil
	}

	fitted := imaging.Fit(img, n.bounds.MaxWidth, n.bounds.MaxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := n.codec.EncodeForPath(&buf, fitted, path); err != nil {
		return false, fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := storage.WriteAtomic(path, &buf); err != nil {
		return false, err
	}
	n.logger.Debug("resized image", zap.String("path", path),
		zap.Int("from_width", b.Dx()), zap.Int("from_height", b.Dy()),
		zap.Int("to_width", fitted.Bounds().Dx()), zap.Int("to_height", fitted.Bounds().Dy()))
	return true, nil
}
