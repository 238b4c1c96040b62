package service

import (
	"encoding/base64"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/manhuaapp/manhua-server/internal/auth"
	"github.com/manhuaapp/manhua-server/internal/device"
	"github.com/manhuaapp/manhua-server/internal/domain"
	"github.com/manhuaapp/manhua-server/internal/remote"
	"github.com/manhuaapp/manhua-server/internal/search"
	"github.com/manhuaapp/manhua-server/internal/store"
)

const testAdminEmail = "admin@example.com"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testEnv wires a full service stack over a temp-dir store, standing in for
// one installed device.
type testEnv struct {
	store    *store.Store
	devices  *device.Provider
	catalog  *CatalogService
	contacts *ContactService
	accounts *AccountService
	sync     *SyncService
}

// newTestEnv creates one simulated device. remoteURL may be empty for
// installs with no remote configured.
func newTestEnv(t *testing.T, remoteURL string, seed domain.RemoteConfig) *testEnv {
	t.Helper()

	logger := discardLogger()
	dataDir := t.TempDir()

	s, err := store.New(filepath.Join(dataDir, "db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	idx, err := search.NewIndex(search.Options{DataPath: dataDir, Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	key, err := auth.LoadOrGenerateKey(dataDir)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(key, time.Hour)
	require.NoError(t, err)

	devices := device.NewProvider(s)
	catalog := NewCatalogService(s, idx, logger)
	contacts := NewContactService(s, logger)
	accounts := NewAccountService(s, devices, tokens, catalog, testAdminEmail, logger)
	syncSvc := NewSyncService(s, remote.NewClient(remoteURL, logger), catalog, contacts, seed, logger)

	return &testEnv{
		store:    s,
		devices:  devices,
		catalog:  catalog,
		contacts: contacts,
		accounts: accounts,
		sync:     syncSvc,
	}
}

// fakeRemote is an in-memory stand-in for the hosting API's contents
// endpoint: one file, base64 content, revision token per write.
type fakeRemote struct {
	mu      sync.Mutex
	content string
	sha     string
	rev     int

	srv *httptest.Server
}

func newFakeRemote(t *testing.T) *fakeRemote {
	t.Helper()

	f := &fakeRemote{}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeRemote) URL() string { return f.srv.URL }

func (f *fakeRemote) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		if f.content == "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"content":%q,"sha":%q}`, f.content, f.sha)
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Content string `json:"content"`
			SHA     string `json:"sha"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.content = req.Content
		f.rev++
		f.sha = fmt.Sprintf("sha-%d", f.rev)
		fmt.Fprint(w, `{}`)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// snapshot decodes the currently stored document.
func (f *fakeRemote) snapshot(t *testing.T) *domain.Snapshot {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.content)

	raw, err := base64.StdEncoding.DecodeString(f.content)
	require.NoError(t, err)

	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(raw, &snap))
	return &snap
}
