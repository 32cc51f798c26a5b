package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"casefinder/internal/caseapi"
	"casefinder/internal/casestore"
	"casefinder/internal/config"
	"casefinder/internal/domain"
)

func TestRootCmd_HasSubcommands(t *testing.T) {
	cmd := NewRootCmd()

	names := make(map[string]bool)
	for _, sc := range cmd.Commands() {
		names[sc.Name()] = true
	}
	assert.True(t, names["lookup"], "should have lookup command")
	assert.True(t, names["serve"], "should have serve command")
	assert.True(t, names["config"], "should have config command")

	for _, flag := range []string{"lookup-url", "offline", "mode"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "root should have --%s", flag)
	}
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func newCaseServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := casestore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Seed(context.Background()))

	srv := httptest.NewServer(caseapi.NewServer(store, nil, nil).Router())
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(url string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Log.File = ""
	cfg.Lookup.URL = url
	return cfg
}

func TestLookupFound(t *testing.T) {
	srv := newCaseServer(t)
	var out bytes.Buffer

	err := runLookup(context.Background(), &out, testConfig(srv.URL), lookupOptions{}, "10010010")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "10010010 - Case was found!")
	assert.Contains(t, out.String(), "Unable to log in to the portal")
}

func TestLookupByIDAsJSON(t *testing.T) {
	srv := newCaseServer(t)
	var out bytes.Buffer

	err := runLookup(context.Background(), &out, testConfig(srv.URL),
		lookupOptions{mode: "Id", asJSON: true}, "500Ab00000abABCAB2")
	require.NoError(t, err)

	var got lookupOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.True(t, got.Valid)
	assert.Equal(t, domain.SearchByID, got.Mode)
	require.NotNil(t, got.Record)
	assert.Equal(t, "10010012", got.Record.CaseNumber)
	require.NotNil(t, got.Notification)
	assert.Equal(t, "Success!", got.Notification.Title)
}

func TestLookupNotFound(t *testing.T) {
	srv := newCaseServer(t)
	var out bytes.Buffer

	err := runLookup(context.Background(), &out, testConfig(srv.URL), lookupOptions{}, "10019999")
	require.True(t, errors.Is(err, errReported))
	assert.Contains(t, out.String(), "No case found for CaseNumber 10019999 - Case was not found!")
}

func TestLookupRejectsMalformedIdentifier(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ }))
	defer srv.Close()
	var out bytes.Buffer

	err := runLookup(context.Background(), &out, testConfig(srv.URL), lookupOptions{asJSON: true}, "1001")
	require.True(t, errors.Is(err, errReported))
	assert.Zero(t, calls, "malformed input must not reach the service")

	var got lookupOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.False(t, got.Valid)
	assert.Equal(t, "Enter a valid format, e.g., 10010010", got.Error)
	assert.Nil(t, got.Notification)
}

func TestLookupOfflineOnlyValidates(t *testing.T) {
	var out bytes.Buffer

	err := runLookup(context.Background(), &out, testConfig(""), lookupOptions{mode: "Id"}, "500Ab00000abABCAB0")
	require.NoError(t, err)
	assert.Equal(t, "500Ab00000abABCAB0 is a valid Case ID\n", out.String())
}

func TestLookupUnknownMode(t *testing.T) {
	err := runLookup(context.Background(), &bytes.Buffer{}, testConfig(""), lookupOptions{mode: "Email"}, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestRunServe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	addrCh := make(chan net.Addr, 1)
	done := make(chan error, 1)

	settings := config.ServerSettings{Addr: "127.0.0.1:0", DBPath: ":memory:"}
	go func() {
		done <- runServe(ctx, settings, true, zap.NewNop(), func(a net.Addr) { addrCh <- a })
	}()

	var addr net.Addr
	select {
	case addr = <-addrCh:
	case err := <-done:
		t.Fatalf("serve exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not start")
	}

	resp, err := http.Get(fmt.Sprintf("http://%s/api/cases/CaseNumber/10010011", addr))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not shut down")
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "casefinder.toml")
	execute := func(args ...string) (string, error) {
		cmd := NewRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs(args)
		err := cmd.Execute()
		return out.String(), err
	}

	out, err := execute("config", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "default_mode")

	_, err = execute("config", "init", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute("config", "init", "--config", path, "--force")
	require.NoError(t, err)

	out, err = execute("config", "path", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)
}
