package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var errInvalidPath = errors.New("invalid storage path")

type DiskStorage struct {
	// BasePath is a directory that is writable by the current process
	BasePath  string
	BaseURL   string
	dirs      map[string]bool
	dirsMutex sync.Mutex
}

func NewDiskStorage(basePath, baseURL string) *DiskStorage {
	return &DiskStorage{
		BasePath: basePath,
		BaseURL:  strings.TrimSuffix(baseURL, "/"),
		dirs:     make(map[string]bool, 10),
	}
}

func (s *DiskStorage) createDir(dir string) error {
	s.dirsMutex.Lock()
	defer s.dirsMutex.Unlock()

	if ok := s.dirs[dir]; ok {
		return nil
	}
	if err := os.MkdirAll(dir, 0777); err != nil {
		return err
	}
	s.dirs[dir] = true
	return nil
}

func (s *DiskStorage) getFullPath(path string) (string, error) {
	clean := filepath.Clean("/" + path)
	if clean == "/" {
		return "", errInvalidPath
	}
	return filepath.Join(s.BasePath, clean), nil
}

func (s *DiskStorage) Save(_ context.Context, path string, reader io.Reader, _ int64, _ string) (string, error) {
	fileName, err := s.getFullPath(path)
	if err != nil {
		return "", err
	}
	if err = s.createDir(filepath.Dir(fileName)); err != nil {
		return "", err
	}
	file, err := os.Create(fileName)
	if err != nil {
		return "", err
	}
	_, err = io.Copy(file, reader)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(fileName)
		return "", err
	}
	return s.BaseURL + "/" + strings.TrimPrefix(filepath.ToSlash(filepath.Clean("/"+path)), "/"), nil
}

func (s *DiskStorage) Delete(_ context.Context, path string) error {
	fileName, err := s.getFullPath(path)
	if err != nil {
		return err
	}
	return os.Remove(fileName)
}
