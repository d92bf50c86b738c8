package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gabzim/slotsync/clients/api"
	"github.com/gabzim/slotsync/clients/orchestrator"
	"github.com/gabzim/slotsync/server/calendarsync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObtainConfig(t *testing.T) {
	t.Setenv("SLOTSYNC_API_HOST", "http://api:9000")
	t.Setenv("SLOTSYNC_TARGET", "Achal")

	cfg, err := obtainConfig([]string{"-s", "--tz", "UTC"})
	require.NoError(t, err)
	assert.Equal(t, "http://api:9000", cfg.Host)
	assert.Equal(t, "Achal", cfg.Target)
	assert.True(t, cfg.SheetSync)
	assert.Equal(t, "UTC", cfg.TimeZone)

	cfg, err = obtainConfig([]string{"-H", "http://other", "-n", "Vivek"})
	require.NoError(t, err)
	assert.Equal(t, "http://other", cfg.Host)
	assert.Equal(t, "Vivek", cfg.Target)
}

func TestRunSession(t *testing.T) {
	var mu sync.Mutex
	var actions []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req calendarsync.Request
		json.NewDecoder(r.Body).Decode(&req)
		mu.Lock()
		actions = append(actions, req.Action)
		mu.Unlock()
		w.Write([]byte(`{"message":"ok"}`))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"title":"HTML","start":"2024-01-01T00:00:00","timeZone":"UTC"},{"title":"CSS","start":"2024-01-01T01:00:00","timeZone":"UTC"}]`), 0o600))

	client, err := api.NewClient(srv.URL, false, srv.Client())
	require.NoError(t, err)
	cfg := &ConnectConfig{EventsPath: path}
	catalog, err := loadCatalog(context.Background(), cfg, client)
	require.NoError(t, err)
	require.Len(t, catalog, 2)

	o := orchestrator.New(client, "Vivek", catalog)
	var out bytes.Buffer
	run(context.Background(), o, strings.NewReader("toggle 1\ntoggle 9\nlist\naddall\nremoveall\nquit\ntoggle 0\n"), &out)

	assert.Equal(t, []string{"add", "addAll", "removeAll"}, actions)
	assert.Contains(t, out.String(), "no slot 9")
	assert.Contains(t, out.String(), "*  1  2024-01-01T01:00:00  CSS")
	assert.Empty(t, o.Selected())
}
