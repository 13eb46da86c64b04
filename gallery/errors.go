package gallery

import "errors"

var (
	// ErrInvalidName aborts a session: the name doubles as a folder name.
	ErrInvalidName = errors.New("invalid gallery name")
	// ErrFolderMissing aborts a session when the folder may not be created.
	ErrFolderMissing = errors.New("gallery folder missing")
	// ErrAborted is returned when the user declines to continue.
	ErrAborted = errors.New("gallery session aborted")
	// ErrInvalidDownloadLink is local to the download link field; the
	// caller may ask again.
	ErrInvalidDownloadLink = errors.New("invalid download link")
	// ErrStepOrder means a session step was called out of sequence.
	ErrStepOrder = errors.New("session step out of order")
)
