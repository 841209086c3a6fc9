package services

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/sealbox/internal/logging"
	"github.com/dmitrijs2005/sealbox/internal/server/config"
	"github.com/dmitrijs2005/sealbox/internal/server/repositories/files"
	"github.com/dmitrijs2005/sealbox/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/sealbox/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/sealbox/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

// testManager serves repositories from an in-memory badger store unless a
// test overrides one of them.
type testManager struct {
	repomanager.RepositoryManager
	users   users.Repository
	files   files.Repository
	refresh refreshtokens.Repository
}

func (m *testManager) Users() users.Repository {
	if m.users != nil {
		return m.users
	}
	return m.RepositoryManager.Users()
}

func (m *testManager) Files() files.Repository {
	if m.files != nil {
		return m.files
	}
	return m.RepositoryManager.Files()
}

func (m *testManager) RefreshTokens() refreshtokens.Repository {
	if m.refresh != nil {
		return m.refresh
	}
	return m.RepositoryManager.RefreshTokens()
}

func newTestManager(t *testing.T) *testManager {
	t.Helper()
	m, err := repomanager.OpenBadger("", nopLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return &testManager{RepositoryManager: m}
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
		DownloadURLTTL:               time.Hour,
		MaxUploadBytes:               1 << 20,
	}
}

// fakeStore is an in-memory objectstore.Store.
type fakeStore struct {
	mu         sync.Mutex
	objects    map[string][]byte
	putErr     error
	presignErr error
	puts       int
	presigns   int
	lastTTL    time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (s *fakeStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	if s.putErr != nil {
		return s.putErr
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.objects[key] = b
	return nil
}

func (s *fakeStore) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presigns++
	s.lastTTL = ttl
	if s.presignErr != nil {
		return "", s.presignErr
	}
	return "https://store.example/" + key + "?signed", nil
}

func (s *fakeStore) calls() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts, s.presigns
}
