//go:build e2e && unix

package main

import (
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"testing"
	"time"
)

// StartLookupService runs `casefinder serve --seed` on a free port and
// returns its base URL. The process is killed when the test ends.
func StartLookupService(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find a free port: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	workspace := t.TempDir()
	cmd := exec.Command(binPath, "serve", "--addr", addr, "--db", ":memory:", "--seed")
	cmd.Dir = workspace
	cmd.Env = appEnv(workspace)
	if err := cmd.Start(); err != nil {
		t.Fatalf("failed to start lookup service: %v", err)
	}
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_, _ = cmd.Process.Wait()
	})

	url := "http://" + addr
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return url
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("lookup service did not become healthy at %s", url)
	return ""
}

// runCLI runs the binary to completion outside the PTY
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	workspace := t.TempDir()
	cmd := exec.Command(binPath, args...)
	cmd.Dir = workspace
	cmd.Env = appEnv(workspace)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if ee, ok := err.(*exec.ExitError); ok {
		return ee.ExitCode()
	}
	panic(fmt.Sprintf("unexpected error type %T", err))
}
