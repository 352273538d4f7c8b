package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Store writes uploaded images under Dir and hands back public URL paths.
type Store struct {
	Dir       string
	URLPrefix string
	now       func() time.Time
}

func NewStore(dir, urlPrefix string) *Store {
	return &Store{Dir: dir, URLPrefix: strings.TrimRight(urlPrefix, "/"), now: time.Now}
}

// Save stores the file as <unix-millis><ext> and returns its URL path.
// A name clash moves to the next millisecond instead of overwriting.
func (s *Store) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir upload dir: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	stamp := s.now().UnixMilli()

	for attempt := 0; attempt < 1000; attempt++ {
		name := strconv.FormatInt(stamp+int64(attempt), 10) + ext
		out, err := os.OpenFile(filepath.Join(s.Dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create upload: %w", err)
		}
		if _, err := io.Copy(out, file); err != nil {
			out.Close()
			_ = os.Remove(out.Name())
			return "", fmt.Errorf("write upload: %w", err)
		}
		if err := out.Close(); err != nil {
			return "", fmt.Errorf("close upload: %w", err)
		}
		return path.Join(s.URLPrefix, name), nil
	}
	return "", errors.New("no free upload name")
}

// Remove deletes a file previously returned by Save. Unknown paths are ignored.
func (s *Store) Remove(urlPath string) error {
	name := path.Base(urlPath)
	if urlPath == "" || name == "." || name == "/" || path.Join(s.URLPrefix, name) != urlPath {
		return nil
	}
	err := os.Remove(filepath.Join(s.Dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
