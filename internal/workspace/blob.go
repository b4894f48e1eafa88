package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	// DefaultUploadDir receives blobs when no directory is given
	DefaultUploadDir = "data/uploads"
	// MaxBlobSize limits persisted blobs to 100MB
	MaxBlobSize = 100 * 1024 * 1024
)

var (
	ErrNilBlob      = errors.New("blob is nil")
	ErrBlobTooLarge = errors.New("blob too large")
)

// Blob is an uploaded file: a name and its content
type Blob interface {
	Name() string
	Bytes() []byte
}

// NamedBlob is an in-memory Blob
type NamedBlob struct {
	Filename string
	Data     []byte
}

func (b NamedBlob) Name() string  { return b.Filename }
func (b NamedBlob) Bytes() []byte { return b.Data }

// ReadFileBlob loads a file from disk as a Blob named after its base name
func ReadFileBlob(path string) (NamedBlob, error) {
	info, err := os.Stat(path)
	if err != nil {
		return NamedBlob{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if info.Size() > MaxBlobSize {
		return NamedBlob{}, fmt.Errorf("%w: %d bytes (max %d)", ErrBlobTooLarge, info.Size(), MaxBlobSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return NamedBlob{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return NamedBlob{Filename: filepath.Base(path), Data: data}, nil
}

var filenameReplacer = strings.NewReplacer(
	"..", "",
	":", "",
	"*", "",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFilename drops directory components and path-hostile characters.
// A name left empty becomes "upload-<uuid>".
func SanitizeFilename(filename string) string {
	if i := strings.LastIndexAny(filename, `/\`); i >= 0 {
		filename = filename[i+1:]
	}

	filename = filenameReplacer.Replace(filename)
	filename = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}

		return r
	}, filename)
	filename = strings.TrimSpace(filename)

	if filename == "" || filename == "." {
		filename = "upload-" + uuid.NewString()
	}

	return filename
}

// SaveBlob writes blob under dir, replacing any file with the same name, and
// returns the final path. An empty dir means DefaultUploadDir.
func SaveBlob(blob Blob, dir string) (string, error) {
	if blob == nil {
		return "", ErrNilBlob
	}

	if dir == "" {
		dir = DefaultUploadDir
	}

	data := blob.Bytes()
	if len(data) > MaxBlobSize {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrBlobTooLarge, len(data), MaxBlobSize)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, SanitizeFilename(blob.Name()))

	if err := replaceFile(path, data); err != nil {
		return "", err
	}

	return path, nil
}

// replaceFile writes data to a temporary file next to path and renames it
// over path, so a failed save leaves any existing entry untouched.
func replaceFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %s: %w", path, err)
	}

	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)

		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)

		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to save %s: %w", path, err)
	}

	return nil
}
