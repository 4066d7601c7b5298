// Package upload stores user-submitted recipe images on local disk under a
// single uploads root and hands back storage-relative paths for the post rows.
package upload

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// MaxUploadBytes caps the whole multipart request body for the new-post form.
const MaxUploadBytes = 4 << 20 // 4 MiB

// PathPrefix is the token stored on post rows ahead of the filename. The
// rendering layer resolves it under the static file root.
const PathPrefix = "uploads"

var (
	ErrMissingFile      = errors.New("no image file supplied")
	ErrInvalidExtension = errors.New("invalid image type")
)

var allowedExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// Store writes uploads into a single directory.
type Store struct {
	dir string
}

// NewStore creates the upload directory if needed and returns a Store for it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the absolute upload directory.
func (s *Store) Dir() string {
	return s.dir
}

// CheckFilename validates a client-supplied filename: empty names mean no file
// was chosen, and only the fixed image extensions are accepted. The extension
// check is case-insensitive.
func CheckFilename(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrMissingFile
	}
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExts[ext] {
		return ErrInvalidExtension
	}
	return nil
}

// SanitizeFilename reduces a client-supplied filename to a filesystem-safe
// basename: path components are stripped and anything outside
// [A-Za-z0-9._-] becomes an underscore. The result never starts with a dot.
func SanitizeFilename(name string) string {
	// Strip directories from both path flavors; browsers may send either.
	name = name[strings.LastIndexByte(name, '/')+1:]
	name = name[strings.LastIndexByte(name, '\\')+1:]

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	clean := strings.TrimLeft(b.String(), ".")
	if strings.TrimLeft(clean, "._-") == "" {
		ext := strings.ToLower(filepath.Ext(name))
		if strings.TrimLeft(ext, ".") == "" {
			ext = ""
		}
		return "upload" + ext
	}
	return clean
}

// Save validates and sanitizes filename, allocates a unique name in the upload
// directory, and writes the file contents there. When the name is taken it
// retries with name-1.ext, name-2.ext, and so on. Allocation uses O_EXCL so two
// concurrent uploads of the same filename can never claim the same path.
// The returned path is storage-relative: "uploads/<finalname>".
func (s *Store) Save(filename string, r io.Reader) (string, error) {
	if err := CheckFilename(filename); err != nil {
		return "", err
	}

	name := SanitizeFilename(filename)
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	candidate := name
	for i := 1; ; i++ {
		f, err := os.OpenFile(filepath.Join(s.dir, candidate), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			if _, err := io.Copy(f, r); err != nil {
				f.Close()
				os.Remove(f.Name())
				return "", fmt.Errorf("write upload: %w", err)
			}
			if err := f.Close(); err != nil {
				return "", fmt.Errorf("close upload: %w", err)
			}
			return path.Join(PathPrefix, candidate), nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("allocate upload path: %w", err)
		}
		candidate = fmt.Sprintf("%s-%d%s", base, i, ext)
	}
}
