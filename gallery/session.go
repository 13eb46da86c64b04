package gallery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/camden-git/galleryprep/media"
	"github.com/camden-git/galleryprep/models"
	"github.com/camden-git/galleryprep/repository"
	"go.uber.org/zap"
)

// Step is a stage of an edit session. Steps run strictly in declaration
// order; each one may run only after the previous completed.
type Step int

const (
	StepSelect Step = iota
	StepValidateName
	StepEnsureFolder
	StepNormalize
	StepBuildManifest
	StepResolveCover
	StepCollectFields
	StepPersist
)

var stepNames = map[Step]string{
	StepSelect:        "select",
	StepValidateName:  "validate name",
	StepEnsureFolder:  "ensure folder",
	StepNormalize:     "normalize",
	StepBuildManifest: "build manifest",
	StepResolveCover:  "resolve cover",
	StepCollectFields: "collect fields",
	StepPersist:       "persist",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Decider answers the yes/no questions a session cannot decide alone.
type Decider interface {
	ConfirmCreateFolder(path string) (bool, error)
	ConfirmResize(folder string) (bool, error)
}

// Normalizer is the image resizing dependency of a session.
type Normalizer interface {
	AlreadyWithinBounds(folder string) (bool, error)
	Normalize(ctx context.Context, folder string) (media.NormalizeResult, error)
}

// ManifestBuilder writes a folder manifest and returns its photo list.
type ManifestBuilder interface {
	Build(folder string) ([]string, error)
}

// Publisher regenerates the public documents from a registry.
type Publisher interface {
	Publish(reg models.Registry) (models.PublicPayload, error)
}

// Engine creates edit sessions over one registry and images root.
type Engine struct {
	imagesRoot string
	store      repository.RegistryStore
	normalizer Normalizer
	manifests  ManifestBuilder
	publisher  Publisher
	logger     *zap.Logger
}

func NewEngine(imagesRoot string, store repository.RegistryStore, normalizer Normalizer, manifests ManifestBuilder, publisher Publisher, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		imagesRoot: imagesRoot,
		store:      store,
		normalizer: normalizer,
		manifests:  manifests,
		publisher:  publisher,
		logger:     logger.Named("gallery"),
	}
}

// Selection names the entry to edit. Index is 1-based and wins over Name;
// New ignores both.
type Selection struct {
	Index int
	Name  string
	New   bool
}

// Session carries one gallery edit from selection to persistence. Nothing
// touches the registry document until Commit.
type Session struct {
	engine   *Engine
	registry models.Registry
	draft    models.GalleryEntry
	isNew    bool
	fellBack bool

	done       Step
	folderPath string
	photos     []string
	resized    bool
	warnings   []string
}

// Load reads the registry an edit session will start from.
func (e *Engine) Load() (models.Registry, error) {
	return e.store.Load()
}

// Begin selects the entry of reg to edit (SELECT). An index or name that
// matches nothing starts a new entry instead, and the fallback is reported
// through FellBackToNew and Warnings.
func (e *Engine) Begin(reg models.Registry, sel Selection) *Session {
	s := &Session{engine: e, registry: reg.Clone(), done: StepSelect}

	switch {
	case sel.New:
		s.isNew = true
	case sel.Index != 0:
		if sel.Index < 1 || sel.Index > len(reg.Galleries) {
			s.startNew(fmt.Sprintf("gallery number %d is out of range (1-%d); starting a new gallery", sel.Index, len(reg.Galleries)),
				zap.Int("index", sel.Index))
		} else {
			s.draft = reg.Galleries[sel.Index-1].Clone()
		}
	case sel.Name != "":
		if i := reg.Find(sel.Name); i >= 0 {
			s.draft = reg.Galleries[i].Clone()
		} else {
			s.startNew(fmt.Sprintf("gallery %q not found; starting a new gallery", sel.Name),
				zap.String("name", sel.Name))
		}
	default:
		s.isNew = true
	}
	return s
}

func (s *Session) startNew(msg string, field zap.Field) {
	s.isNew = true
	s.fellBack = true
	s.draft = models.GalleryEntry{}
	s.warn(msg, field)
}

func (s *Session) warn(msg string, fields ...zap.Field) {
	s.warnings = append(s.warnings, msg)
	s.engine.logger.Warn(msg, fields...)
}

func (s *Session) advance(from, to Step) error {
	if s.done != from {
		return fmt.Errorf("%w: %s requires %s to have completed (last completed: %s)", ErrStepOrder, to, from, s.done)
	}
	return nil
}

// Entry returns the entry being edited as it stands.
func (s *Session) Entry() models.GalleryEntry { return s.draft.Clone() }

// Registry returns the registry as loaded at the start of the session.
func (s *Session) Registry() models.Registry { return s.registry.Clone() }

// IsNew reports whether the session creates a new entry.
func (s *Session) IsNew() bool { return s.isNew }

// FellBackToNew reports whether an invalid selection became a new entry.
func (s *Session) FellBackToNew() bool { return s.fellBack }

// FolderPath is the resolved gallery folder once ENSURE_FOLDER ran.
func (s *Session) FolderPath() string { return s.folderPath }

// Photos is the manifest list once BUILD_MANIFEST ran.
func (s *Session) Photos() []string { return append([]string(nil), s.photos...) }

// Resized reports whether NORMALIZE_IF_NEEDED rewrote images.
func (s *Session) Resized() bool { return s.resized }

// Warnings lists every soft fallback taken so far, oldest first.
func (s *Session) Warnings() []string { return append([]string(nil), s.warnings...) }

// Step returns the last completed step.
func (s *Session) Step() Step { return s.done }

// SetIdentity applies the name, folder and title (VALIDATE_NAME). A blank
// name takes the folder and vice versa. An illegal name or folder aborts
// the session; it is never corrected silently.
func (s *Session) SetIdentity(name, folder, title string) error {
	if err := s.advance(StepSelect, StepValidateName); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	folder = strings.TrimSpace(folder)
	if name == "" {
		name = folder
	}
	if folder == "" {
		folder = name
	}
	if err := ValidateName(name); err != nil {
		return err
	}
	if folder != name {
		if err := ValidateName(folder); err != nil {
			return fmt.Errorf("folder: %w", err)
		}
	}
	if !s.isNew && s.draft.Name != "" && s.draft.Name != name {
		s.engine.logger.Info("gallery renamed; the old entry stays in the registry",
			zap.String("old_name", s.draft.Name), zap.String("new_name", name))
	}

	s.draft.Name = name
	s.draft.Folder = folder
	s.draft.Title = strings.TrimSpace(title)
	s.done = StepValidateName
	return nil
}

// EnsureFolder resolves the gallery folder under the images root
// (ENSURE_FOLDER). A missing folder is created only if decider agrees.
func (s *Session) EnsureFolder(decider Decider) (string, error) {
	if err := s.advance(StepValidateName, StepEnsureFolder); err != nil {
		return "", err
	}
	path := filepath.Join(s.engine.imagesRoot, s.draft.Folder)

	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
	case err == nil:
		return "", fmt.Errorf("%w: %s is not a directory", ErrFolderMissing, path)
	case os.IsNotExist(err):
		create, derr := decider.ConfirmCreateFolder(path)
		if derr != nil {
			return "", derr
		}
		if !create {
			return "", fmt.Errorf("%w: %s", ErrFolderMissing, path)
		}
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", fmt.Errorf("failed to create gallery folder %s: %w", path, err)
		}
		s.engine.logger.Info("created gallery folder", zap.String("folder", path))
	default:
		return "", fmt.Errorf("failed to stat gallery folder %s: %w", path, err)
	}

	s.folderPath = path
	s.done = StepEnsureFolder
	return path, nil
}

// NormalizeIfNeeded resizes the folder's images when they exceed the target
// box and decider agrees (NORMALIZE_IF_NEEDED). Declining is not an error.
func (s *Session) NormalizeIfNeeded(ctx context.Context, decider Decider) (bool, error) {
	if err := s.advance(StepEnsureFolder, StepNormalize); err != nil {
		return false, err
	}
	within, err := s.engine.normalizer.AlreadyWithinBounds(s.folderPath)
	if err != nil {
		return false, err
	}
	if within {
		s.engine.logger.Info("images already within the web size target; skipping resize", zap.String("folder", s.folderPath))
		s.done = StepNormalize
		return false, nil
	}

	ok, err := decider.ConfirmResize(s.folderPath)
	if err != nil {
		return false, err
	}
	if !ok {
		s.engine.logger.Info("resize declined; keeping images as they are", zap.String("folder", s.folderPath))
		s.done = StepNormalize
		return false, nil
	}
	if _, err := s.engine.normalizer.Normalize(ctx, s.folderPath); err != nil {
		return false, err
	}
	s.resized = true
	s.done = StepNormalize
	return true, nil
}

// BuildManifest writes the folder manifest from the final file state
// (BUILD_MANIFEST).
func (s *Session) BuildManifest() ([]string, error) {
	if err := s.advance(StepNormalize, StepBuildManifest); err != nil {
		return nil, err
	}
	photos, err := s.engine.manifests.Build(s.folderPath)
	if err != nil {
		return nil, err
	}
	if len(photos) == 0 {
		s.warn("this gallery folder has no images yet; it will publish with no photos", zap.String("folder", s.folderPath))
	}
	s.photos = photos
	s.done = StepBuildManifest
	return s.Photos(), nil
}

// ResolveCover settles the cover photo (RESOLVE_COVER). A stored cover
// that is no longer in the manifest is reported first. requested, when
// non-empty, is the cover the user asked for; otherwise the stored cover is
// kept if present. Any miss falls back to the first photo and is reported.
// An empty gallery gets an empty cover.
func (s *Session) ResolveCover(requested string) (string, error) {
	if err := s.advance(StepBuildManifest, StepResolveCover); err != nil {
		return "", err
	}
	if stored := s.draft.Cover; stored != "" {
		if fallback, fellBack := ResolveCover(stored, s.photos); fellBack {
			s.warn(fmt.Sprintf("cover %q not found in %s; defaulting to %q", stored, s.draft.Folder, fallback),
				zap.String("stored_cover", stored), zap.String("fallback", fallback))
			s.draft.Cover = ""
		}
	}

	requested = strings.TrimSpace(requested)
	if requested != "" && requested != s.draft.Cover {
		if cover, fellBack := ResolveCover(requested, s.photos); !fellBack {
			s.draft.Cover = cover
			s.done = StepResolveCover
			return cover, nil
		}
		cover, _ := ResolveCover(s.draft.Cover, s.photos)
		s.warn(fmt.Sprintf("cover %q not found in %s; using %q", requested, s.draft.Folder, cover),
			zap.String("requested_cover", requested), zap.String("fallback", cover))
		s.draft.Cover = cover
		s.done = StepResolveCover
		return cover, nil
	}

	cover, _ := ResolveCover(s.draft.Cover, s.photos)
	s.draft.Cover = cover
	s.done = StepResolveCover
	return cover, nil
}

// Fields are the free-form values collected after the cover.
type Fields struct {
	Password     string
	DownloadLink string
}

// CollectFields applies password and download link (COLLECT_FIELDS) and
// defaults a blank title to the name. An invalid link returns
// ErrInvalidDownloadLink and leaves the session where it was, so the
// caller can ask again.
func (s *Session) CollectFields(f Fields) error {
	if err := s.advance(StepResolveCover, StepCollectFields); err != nil {
		return err
	}
	link := strings.TrimSpace(f.DownloadLink)
	if err := ValidateDownloadLink(link); err != nil {
		return err
	}
	s.draft.Password = f.Password
	s.draft.DownloadLink = link
	if s.draft.Title == "" {
		s.draft.Title = s.draft.Name
	}
	s.done = StepCollectFields
	return nil
}

// CommitResult is what a successful PERSIST produced.
type CommitResult struct {
	Entry    models.GalleryEntry
	Registry models.Registry
	Payload  models.PublicPayload
	Warnings []string
}

// Commit upserts the entry, saves the sorted registry and regenerates the
// public documents (UPSERT, PERSIST).
func (s *Session) Commit() (CommitResult, error) {
	if err := s.advance(StepCollectFields, StepPersist); err != nil {
		return CommitResult{}, err
	}
	if len(s.photos) == 0 {
		s.warn(fmt.Sprintf("publishing gallery %q with zero photos", s.draft.Name), zap.String("gallery", s.draft.Name))
	}

	reg := Upsert(s.registry, s.draft)
	if err := s.engine.store.Save(reg); err != nil {
		return CommitResult{}, err
	}
	s.registry = reg
	s.done = StepPersist

	payload, err := s.engine.publisher.Publish(reg)
	if err != nil {
		return CommitResult{}, fmt.Errorf("registry saved to %s but publishing failed: %w", s.engine.store.Path(), err)
	}
	s.engine.logger.Info("gallery saved", zap.String("gallery", s.draft.Name), zap.Int("registry_size", len(reg.Galleries)))
	return CommitResult{Entry: s.draft.Clone(), Registry: reg.Clone(), Payload: payload, Warnings: s.Warnings()}, nil
}

// Edit holds non-interactive values for Run. Blank fields keep the
// selected entry's current value.
type Edit struct {
	Name         string
	Folder       string
	Title        string
	Cover        string
	Password     string
	DownloadLink string
}

// Run performs a whole session without prompts.
func (e *Engine) Run(ctx context.Context, sel Selection, edit Edit, decider Decider) (CommitResult, error) {
	reg, err := e.Load()
	if err != nil {
		return CommitResult{}, err
	}
	s := e.Begin(reg, sel)
	cur := s.Entry()
	if err := s.SetIdentity(orDefault(edit.Name, cur.Name), orDefault(edit.Folder, cur.Folder), orDefault(edit.Title, cur.Title)); err != nil {
		return CommitResult{}, err
	}
	if _, err := s.EnsureFolder(decider); err != nil {
		return CommitResult{}, err
	}
	if _, err := s.NormalizeIfNeeded(ctx, decider); err != nil {
		return CommitResult{}, err
	}
	if _, err := s.BuildManifest(); err != nil {
		return CommitResult{}, err
	}
	if _, err := s.ResolveCover(edit.Cover); err != nil {
		return CommitResult{}, err
	}
	fields := Fields{
		Password:     orDefault(edit.Password, cur.Password),
		DownloadLink: orDefault(edit.DownloadLink, cur.DownloadLink),
	}
	if err := s.CollectFields(fields); err != nil {
		return CommitResult{}, err
	}
	return s.Commit()
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
