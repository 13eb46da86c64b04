package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearGalleryEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GALLERY_PUBLIC_DIR", "GALLERY_IMAGES_ROOT", "GALLERY_REGISTRY_PATH",
		"GALLERY_LISTING_PATH", "GALLERY_SECRETS_PATH", "GALLERY_MANIFEST_NAME",
		"GALLERY_MAX_WIDTH", "GALLERY_MAX_HEIGHT", "GALLERY_IMAGE_EXTENSIONS",
		"GALLERY_RESIZE_WORKERS", "GALLERY_WEBP_QUALITY", "GALLERY_JPEG_QUALITY",
		"GALLERY_ARCHIVES_PATH",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearGalleryEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(cfg.PublicDir))
	assert.Equal(t, filepath.Join(cfg.PublicDir, "images"), cfg.ImagesRoot)
	assert.Equal(t, filepath.Join(cfg.ImagesRoot, "galleries.json"), cfg.ListingPath)
	assert.Equal(t, filepath.Join(cfg.PublicDir, "secrets.json"), cfg.SecretsPath)
	assert.True(t, filepath.IsAbs(cfg.RegistryPath))
	assert.Equal(t, "galleries.yaml", filepath.Base(cfg.RegistryPath))
	assert.Equal(t, "manifest.json", cfg.ManifestName)
	assert.Equal(t, 1600, cfg.MaxWidth)
	assert.Equal(t, 1200, cfg.MaxHeight)
	assert.Equal(t, []string{".jpg", ".jpeg", ".png", ".webp"}, cfg.ImageExtensions)
	assert.Equal(t, 100, cfg.WebPQuality)
	assert.Equal(t, 90, cfg.JPEGQuality)
	assert.Equal(t, 1, cfg.ResizeWorkers)
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearGalleryEnv(t)
	dir := t.TempDir()
	t.Setenv("GALLERY_PUBLIC_DIR", dir)
	t.Setenv("GALLERY_REGISTRY_PATH", filepath.Join(dir, "reg.yaml"))
	t.Setenv("GALLERY_MAX_WIDTH", "800")
	t.Setenv("GALLERY_MAX_HEIGHT", "not-a-number")
	t.Setenv("GALLERY_IMAGE_EXTENSIONS", "JPG, webp,,.jpg")
	t.Setenv("GALLERY_WEBP_QUALITY", "150")
	t.Setenv("GALLERY_RESIZE_WORKERS", "4")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.PublicDir)
	assert.Equal(t, filepath.Join(dir, "images"), cfg.ImagesRoot)
	assert.Equal(t, filepath.Join(dir, "reg.yaml"), cfg.RegistryPath)
	assert.Equal(t, 800, cfg.MaxWidth)
	assert.Equal(t, 1200, cfg.MaxHeight, "invalid value falls back to the default")
	assert.Equal(t, []string{".jpg", ".webp"}, cfg.ImageExtensions)
	assert.Equal(t, 100, cfg.WebPQuality)
	assert.Equal(t, 4, cfg.ResizeWorkers)
}

func TestLoadConfig_Rejects(t *testing.T) {
	t.Run("manifest name with a path", func(t *testing.T) {
		clearGalleryEnv(t)
		t.Setenv("GALLERY_MANIFEST_NAME", "sub/manifest.json")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("no extensions", func(t *testing.T) {
		clearGalleryEnv(t)
		t.Setenv("GALLERY_IMAGE_EXTENSIONS", " , ,")
		_, err := LoadConfig()
		assert.Error(t, err)
	})
}

func TestWithImagesRoot(t *testing.T) {
	clearGalleryEnv(t)
	cfg, err := LoadConfig()
	require.NoError(t, err)

	root := t.TempDir()
	moved, err := cfg.WithImagesRoot(root)
	require.NoError(t, err)
	assert.Equal(t, root, moved.ImagesRoot)
	assert.Equal(t, filepath.Join(root, "galleries.json"), moved.ListingPath)
	assert.Equal(t, cfg.SecretsPath, moved.SecretsPath)

	cfg.ListingPath = "/srv/site/listing.json"
	moved, err = cfg.WithImagesRoot(root)
	require.NoError(t, err)
	assert.Equal(t, "/srv/site/listing.json", moved.ListingPath, "an explicit listing path is kept")
}

func TestParseExtensions(t *testing.T) {
	assert.Equal(t, []string{".png", ".jpg"}, ParseExtensions("PNG,.Jpg, png"))
	assert.Empty(t, ParseExtensions(""))
}
