package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore publishes images from a directory the API server serves
// under /images.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocal(dir, publicBaseURL string) *LocalStore {
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(publicBaseURL, "/")}
}

func (s *LocalStore) Dir() string { return s.dir }

// Publish copies localPath into the served directory when it lives
// elsewhere and returns its public URL.
func (s *LocalStore) Publish(_ context.Context, localPath, key string) (string, error) {
	if strings.Contains(key, "/") || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid image key: %q", key)
	}
	dst := filepath.Join(s.dir, key)
	if filepath.Clean(localPath) != filepath.Clean(dst) {
		if err := copyFile(localPath, dst); err != nil {
			return "", err
		}
	} else if _, err := os.Stat(dst); err != nil {
		return "", err
	}
	return s.baseURL + "/images/" + url.PathEscape(key), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
