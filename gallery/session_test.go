package gallery

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/camden-git/galleryprep/manifest"
	"github.com/camden-git/galleryprep/media"
	"github.com/camden-git/galleryprep/models"
	"github.com/camden-git/galleryprep/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeNormalizer struct {
	within     bool
	normalized []string
	err        error
}

func (f *fakeNormalizer) AlreadyWithinBounds(folder string) (bool, error) {
	return f.within, nil
}

func (f *fakeNormalizer) Normalize(ctx context.Context, folder string) (media.NormalizeResult, error) {
	f.normalized = append(f.normalized, folder)
	return media.NormalizeResult{}, f.err
}

type fakeDecider struct {
	create, resize bool
	asked          []string
}

func (d *fakeDecider) ConfirmCreateFolder(path string) (bool, error) {
	d.asked = append(d.asked, "create:"+path)
	return d.create, nil
}

func (d *fakeDecider) ConfirmResize(folder string) (bool, error) {
	d.asked = append(d.asked, "resize:"+folder)
	return d.resize, nil
}

type fakePublisher struct {
	published []models.Registry
	err       error
}

func (p *fakePublisher) Publish(reg models.Registry) (models.PublicPayload, error) {
	p.published = append(p.published, reg)
	return models.PublicPayload{}, p.err
}

type harness struct {
	root       string
	repo       *repository.RegistryRepository
	normalizer *fakeNormalizer
	publisher  *fakePublisher
	engine     *Engine
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	h := &harness{
		root:       filepath.Join(dir, "images"),
		repo:       repository.NewRegistryRepository(filepath.Join(dir, "data", "galleries.yaml"), zap.NewNop()),
		normalizer: &fakeNormalizer{within: true},
		publisher:  &fakePublisher{},
	}
	require.NoError(t, os.MkdirAll(h.root, 0755))
	builder := manifest.NewBuilder(media.Extensions{".jpg", ".png", ".webp"}, "manifest.json", zap.NewNop())
	h.engine = NewEngine(h.root, h.repo, h.normalizer, builder, h.publisher, zap.NewNop())
	return h
}

func (h *harness) addPhotos(t *testing.T, folder string, names ...string) {
	t.Helper()
	dir := filepath.Join(h.root, folder)
	require.NoError(t, os.MkdirAll(dir, 0755))
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("x"), 0644))
	}
}

func TestRun_NewGalleryDefaults(t *testing.T) {
	h := newHarness(t)
	h.addPhotos(t, "beach", "b.jpg", "a.jpg")

	res, err := h.engine.Run(context.Background(), Selection{New: true}, Edit{Name: "beach"}, &fakeDecider{})
	require.NoError(t, err)

	assert.Equal(t, "beach", res.Entry.Title)
	assert.Equal(t, "beach", res.Entry.Folder)
	assert.Equal(t, "a.jpg", res.Entry.Cover)
	require.Len(t, res.Registry.Galleries, 1)

	reg, err := h.repo.Load()
	require.NoError(t, err)
	require.Len(t, reg.Galleries, 1)
	assert.Equal(t, "beach", reg.Galleries[0].Name)
	assert.Equal(t, "a.jpg", reg.Galleries[0].Cover)
	require.Len(t, h.publisher.published, 1)
	assert.FileExists(t, filepath.Join(h.root, "beach", "manifest.json"))
}

func TestRun_EditKeepsUnsetFields(t *testing.T) {
	h := newHarness(t)
	h.addPhotos(t, "beach", "a.jpg", "b.jpg")
	require.NoError(t, h.repo.Save(models.Registry{Galleries: []models.GalleryEntry{
		{Name: "beach", Folder: "beach", Title: "Sunny", Cover: "b.jpg", Password: "pw"},
	}}))

	res, err := h.engine.Run(context.Background(), Selection{Index: 1}, Edit{DownloadLink: "https://example.com/beach.zip"}, &fakeDecider{})
	require.NoError(t, err)
	assert.Equal(t, "Sunny", res.Entry.Title)
	assert.Equal(t, "b.jpg", res.Entry.Cover)
	assert.Equal(t, "pw", res.Entry.Password)
	assert.Equal(t, "https://example.com/beach.zip", res.Entry.DownloadLink)
	assert.Len(t, res.Registry.Galleries, 1, "editing never duplicates")
}

func TestBegin_InvalidSelectionStartsNew(t *testing.T) {
	h := newHarness(t)
	reg := models.Registry{Galleries: []models.GalleryEntry{{Name: "beach"}}}

	for _, sel := range []Selection{{Index: 5}, {Index: -1}, {Name: "nope"}} {
		s := h.engine.Begin(reg, sel)
		assert.True(t, s.IsNew())
		assert.True(t, s.FellBackToNew())
		assert.Len(t, s.Warnings(), 1)
		assert.Equal(t, models.GalleryEntry{}, s.Entry())
	}

	s := h.engine.Begin(reg, Selection{Name: "beach"})
	assert.False(t, s.IsNew())
	assert.Equal(t, "beach", s.Entry().Name)
}

func TestSession_StepsRunInOrder(t *testing.T) {
	h := newHarness(t)
	h.addPhotos(t, "beach", "a.jpg")
	s := h.engine.Begin(models.Registry{}, Selection{New: true})

	_, err := s.BuildManifest()
	assert.ErrorIs(t, err, ErrStepOrder)
	_, err = s.Commit()
	assert.ErrorIs(t, err, ErrStepOrder)

	require.NoError(t, s.SetIdentity("beach", "", ""))
	assert.ErrorIs(t, s.SetIdentity("beach", "", ""), ErrStepOrder, "steps do not repeat")
	_, err = s.ResolveCover("")
	assert.ErrorIs(t, err, ErrStepOrder)
	assert.Equal(t, StepValidateName, s.Step())
}

func TestSession_InvalidNameAborts(t *testing.T) {
	h := newHarness(t)
	s := h.engine.Begin(models.Registry{}, Selection{New: true})

	err := s.SetIdentity("My/Gallery", "", "")
	assert.ErrorIs(t, err, ErrInvalidName)
	assert.Equal(t, StepSelect, s.Step())

	_, err = h.engine.Run(context.Background(), Selection{New: true}, Edit{Name: ".."}, &fakeDecider{})
	assert.ErrorIs(t, err, ErrInvalidName)
	_, statErr := os.Stat(h.repo.Path())
	assert.True(t, os.IsNotExist(statErr), "nothing is persisted")
}

func TestSession_MissingFolder(t *testing.T) {
	t.Run("declined", func(t *testing.T) {
		h := newHarness(t)
		d := &fakeDecider{create: false}
		_, err := h.engine.Run(context.Background(), Selection{New: true}, Edit{Name: "empty"}, d)
		assert.ErrorIs(t, err, ErrFolderMissing)
		assert.Equal(t, []string{"create:" + filepath.Join(h.root, "empty")}, d.asked)
		assert.NoDirExists(t, filepath.Join(h.root, "empty"))
		assert.Empty(t, h.publisher.published)
	})

	t.Run("created", func(t *testing.T) {
		h := newHarness(t)
		res, err := h.engine.Run(context.Background(), Selection{New: true}, Edit{Name: "empty"}, &fakeDecider{create: true})
		require.NoError(t, err)
		assert.DirExists(t, filepath.Join(h.root, "empty"))
		assert.Equal(t, "", res.Entry.Cover)
		assert.NotEmpty(t, res.Warnings, "publishing with zero photos is reported")
	})
}

func TestSession_Normalize(t *testing.T) {
	t.Run("within bounds skips the question", func(t *testing.T) {
		h := newHarness(t)
		h.addPhotos(t, "beach", "a.jpg")
		d := &fakeDecider{}
		_, err := h.engine.Run(context.Background(), Selection{New: true}, Edit{Name: "beach"}, d)
		require.NoError(t, err)
		assert.Empty(t, d.asked)
		assert.Empty(t, h.normalizer.normalized)
	})

	t.Run("declined keeps images", func(t *testing.T) {
		h := newHarness(t)
		h.normalizer.within = false
		h.addPhotos(t, "beach", "a.jpg")
		_, err := h.engine.Run(context.Background(), Selection{New: true}, Edit{Name: "beach"}, &fakeDecider{resize: false})
		require.NoError(t, err)
		assert.Empty(t, h.normalizer.normalized)
	})

	t.Run("accepted resizes", func(t *testing.T) {
		h := newHarness(t)
		h.normalizer.within = false
		h.addPhotos(t, "beach", "a.jpg")
		_, err := h.engine.Run(context.Background(), Selection{New: true}, Edit{Name: "beach"}, &fakeDecider{resize: true})
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(h.root, "beach")}, h.normalizer.normalized)
	})

	t.Run("resize failure aborts before saving", func(t *testing.T) {
		h := newHarness(t)
		h.normalizer.within = false
		h.normalizer.err = errors.New("decode failed")
		h.addPhotos(t, "beach", "a.jpg")
		_, err := h.engine.Run(context.Background(), Selection{New: true}, Edit{Name: "beach"}, &fakeDecider{resize: true})
		require.Error(t, err)
		assert.NoFileExists(t, h.repo.Path())
	})
}

func TestSession_CoverFallbacks(t *testing.T) {
	h := newHarness(t)
	h.addPhotos(t, "beach", "c.jpg", "b.jpg")
	reg := models.Registry{Galleries: []models.GalleryEntry{{Name: "beach", Cover: "deleted.jpg"}}}

	s := h.engine.Begin(reg, Selection{Index: 1})
	require.NoError(t, s.SetIdentity("beach", "beach", ""))
	_, err := s.EnsureFolder(&fakeDecider{})
	require.NoError(t, err)
	_, err = s.NormalizeIfNeeded(context.Background(), &fakeDecider{})
	require.NoError(t, err)
	_, err = s.BuildManifest()
	require.NoError(t, err)

	cover, err := s.ResolveCover("typo.jpg")
	require.NoError(t, err)
	assert.Equal(t, "b.jpg", cover)
	warnings := s.Warnings()
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], `"deleted.jpg"`)
	assert.Contains(t, warnings[1], `"typo.jpg"`)
}

func TestSession_StaleStoredCoverIsReported(t *testing.T) {
	h := newHarness(t)
	h.addPhotos(t, "beach", "a.jpg", "b.jpg")
	require.NoError(t, h.repo.Save(models.Registry{Galleries: []models.GalleryEntry{
		{Name: "beach", Folder: "beach", Cover: "c.jpg"},
	}}))

	// the fallback itself offered back as the requested cover
	res, err := h.engine.Run(context.Background(), Selection{Index: 1}, Edit{Cover: "a.jpg"}, &fakeDecider{})
	require.NoError(t, err)
	assert.Equal(t, "a.jpg", res.Entry.Cover)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], `"c.jpg"`)
	assert.Contains(t, res.Warnings[0], `"a.jpg"`)
}

func TestSession_RequestedCover(t *testing.T) {
	h := newHarness(t)
	h.addPhotos(t, "beach", "a.jpg", "b.jpg")

	res, err := h.engine.Run(context.Background(), Selection{New: true}, Edit{Name: "beach", Cover: "b.jpg"}, &fakeDecider{})
	require.NoError(t, err)
	assert.Equal(t, "b.jpg", res.Entry.Cover)
	assert.Empty(t, res.Warnings)
}

func TestSession_InvalidLinkCanBeRetried(t *testing.T) {
	h := newHarness(t)
	h.addPhotos(t, "beach", "a.jpg")
	s := h.engine.Begin(models.Registry{}, Selection{New: true})
	require.NoError(t, s.SetIdentity("beach", "", "Beach"))
	_, err := s.EnsureFolder(&fakeDecider{})
	require.NoError(t, err)
	_, err = s.NormalizeIfNeeded(context.Background(), &fakeDecider{})
	require.NoError(t, err)
	_, err = s.BuildManifest()
	require.NoError(t, err)
	_, err = s.ResolveCover("")
	require.NoError(t, err)

	err = s.CollectFields(Fields{Password: "pw", DownloadLink: "not a url"})
	assert.ErrorIs(t, err, ErrInvalidDownloadLink)
	assert.Equal(t, StepResolveCover, s.Step())

	require.NoError(t, s.CollectFields(Fields{Password: "pw", DownloadLink: "https://example.com/file.zip"}))
	res, err := s.Commit()
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/file.zip", res.Entry.DownloadLink)
	assert.Equal(t, "Beach", res.Entry.Title)
}

func TestCommit_PublishFailureKeepsRegistry(t *testing.T) {
	h := newHarness(t)
	h.addPhotos(t, "beach", "a.jpg")
	h.publisher.err = errors.New("disk full")

	_, err := h.engine.Run(context.Background(), Selection{New: true}, Edit{Name: "beach"}, &fakeDecider{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registry saved")

	reg, err := h.repo.Load()
	require.NoError(t, err)
	assert.Len(t, reg.Galleries, 1)
}
