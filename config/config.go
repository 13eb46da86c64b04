package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	DefaultPublicDir     = "public"
	DefaultImagesSubDir  = "images"
	DefaultRegistryPath  = "data/galleries.yaml"
	DefaultListingName   = "galleries.json"
	DefaultSecretsName   = "secrets.json"
	DefaultManifestName  = "manifest.json"
	DefaultArchivesPath  = "archives"
	DefaultImageExtsList = ".jpg,.jpeg,.png,.webp"
)

const (
	defaultMaxWidth      = 1600
	defaultMaxHeight     = 1200
	defaultResizeWorkers = 1
	defaultWebPQuality   = 100
	defaultJPEGQuality   = 90
)

type Config struct {
	// public site directory and the gallery tree below it
	PublicDir  string
	ImagesRoot string

	// durable registry document (source of truth)
	RegistryPath string

	// derived documents consumed by the front end
	ListingPath string
	SecretsPath string

	// per-gallery manifest file name
	ManifestName string

	// web target box; images are fit inside it, never upscaled
	MaxWidth  int
	MaxHeight int

	// lower-cased, dot-prefixed extensions treated as gallery photos
	ImageExtensions []string

	// encoder settings
	WebPQuality int
	JPEGQuality int

	// resize pool size
	ResizeWorkers int

	// where originals archives are written before a destructive resize
	ArchivesPath string
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

// ParseExtensions normalizes a comma-separated extension list into
// lower-cased, dot-prefixed entries. Blank items are dropped.
func ParseExtensions(list string) []string {
	var exts []string
	seen := make(map[string]bool)
	for _, raw := range strings.Split(list, ",") {
		ext := strings.ToLower(strings.TrimSpace(raw))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if seen[ext] {
			continue
		}
		seen[ext] = true
		exts = append(exts, ext)
	}
	return exts
}

func absPath(label, p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for %s '%s': %w", label, p, err)
	}
	return abs, nil
}

// LoadConfig reads the environment (already populated from any .env file)
// and returns a Config with absolute paths.
func LoadConfig() (Config, error) {
	publicDir, err := absPath("public directory", getEnvOrDefault("GALLERY_PUBLIC_DIR", DefaultPublicDir))
	if err != nil {
		return Config{}, err
	}

	imagesRoot, err := absPath("images root", getEnvOrDefault("GALLERY_IMAGES_ROOT", filepath.Join(publicDir, DefaultImagesSubDir)))
	if err != nil {
		return Config{}, err
	}

	registryPath, err := absPath("registry", getEnvOrDefault("GALLERY_REGISTRY_PATH", DefaultRegistryPath))
	if err != nil {
		return Config{}, err
	}

	listingPath, err := absPath("listing", getEnvOrDefault("GALLERY_LISTING_PATH", filepath.Join(imagesRoot, DefaultListingName)))
	if err != nil {
		return Config{}, err
	}

	secretsPath, err := absPath("secrets", getEnvOrDefault("GALLERY_SECRETS_PATH", filepath.Join(publicDir, DefaultSecretsName)))
	if err != nil {
		return Config{}, err
	}

	archivesPath, err := absPath("archives", getEnvOrDefault("GALLERY_ARCHIVES_PATH", DefaultArchivesPath))
	if err != nil {
		return Config{}, err
	}

	manifestName := getEnvOrDefault("GALLERY_MANIFEST_NAME", DefaultManifestName)
	if strings.ContainsAny(manifestName, `/\`) {
		return Config{}, fmt.Errorf("manifest name '%s' must be a bare file name", manifestName)
	}

	exts := ParseExtensions(getEnvOrDefault("GALLERY_IMAGE_EXTENSIONS", DefaultImageExtsList))
	if len(exts) == 0 {
		return Config{}, fmt.Errorf("GALLERY_IMAGE_EXTENSIONS must name at least one extension")
	}

	cfg := Config{
		PublicDir:       publicDir,
		ImagesRoot:      imagesRoot,
		RegistryPath:    registryPath,
		ListingPath:     listingPath,
		SecretsPath:     secretsPath,
		ManifestName:    manifestName,
		MaxWidth:        getEnvIntOrDefault("GALLERY_MAX_WIDTH", defaultMaxWidth),
		MaxHeight:       getEnvIntOrDefault("GALLERY_MAX_HEIGHT", defaultMaxHeight),
		ImageExtensions: exts,
		WebPQuality:     clampQuality(getEnvIntOrDefault("GALLERY_WEBP_QUALITY", defaultWebPQuality)),
		JPEGQuality:     clampQuality(getEnvIntOrDefault("GALLERY_JPEG_QUALITY", defaultJPEGQuality)),
		ResizeWorkers:   getEnvIntOrDefault("GALLERY_RESIZE_WORKERS", defaultResizeWorkers),
		ArchivesPath:    archivesPath,
	}

	return cfg, nil
}

// WithImagesRoot returns a copy of cfg rooted at a different images
// directory. The listing document follows the root when it was left at its
// default location.
func (c Config) WithImagesRoot(root string) (Config, error) {
	abs, err := absPath("images root", root)
	if err != nil {
		return c, err
	}
	if c.ListingPath == filepath.Join(c.ImagesRoot, DefaultListingName) {
		c.ListingPath = filepath.Join(abs, DefaultListingName)
	}
	c.ImagesRoot = abs
	return c, nil
}

func clampQuality(q int) int {
	if q > 100 {
		return 100
	}
	return q
}
