package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	documentapp "github.com/salespulse/backend/internal/application/document"
)

var _ documentapp.ObjectStorageService = (*StubObjectStorage)(nil)

// StubObjectStorage stands in when object storage is disabled in
// configuration. URLs it mints are not usable; ObjectExists reports
// true for every key it has not seen deleted so the download flow
// stays exercisable in development.
type StubObjectStorage struct {
	// BaseURL prefixes the fake URLs. Defaults to
	// "https://storage.invalid".
	BaseURL string

	mu      sync.Mutex
	deleted map[string]bool
}

// NewStubObjectStorage creates a stub storage backend.
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{
		BaseURL: "https://storage.invalid",
		deleted: make(map[string]bool),
	}
}

// GenerateUploadURL returns a fake upload URL.
func (s *StubObjectStorage) GenerateUploadURL(
	_ context.Context,
	storageKey, _ string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/upload/" + storageKey, expiresAt, nil
}

// GenerateDownloadURL returns a fake download URL.
func (s *StubObjectStorage) GenerateDownloadURL(
	_ context.Context,
	storageKey string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/download/" + storageKey, expiresAt, nil
}

// DeleteObject marks the key deleted.
func (s *StubObjectStorage) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	s.deleted[storageKey] = true
	s.mu.Unlock()
	return nil
}

// ObjectExists reports true unless the key was deleted.
func (s *StubObjectStorage) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.deleted[storageKey], nil
}
