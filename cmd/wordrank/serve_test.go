package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/nao1215/wordrank/internal/config"
)

// lineWriter forwards each write to a channel.
type lineWriter chan string

func (w lineWriter) Write(p []byte) (int, error) {
	w <- string(p)
	return len(p), nil
}

// TestNewServeCmd tests the serve command creation.
func TestNewServeCmd(t *testing.T) {
	t.Parallel()

	cmd := NewServeCmd()

	flag := cmd.Flags().Lookup("addr")
	if flag == nil {
		t.Fatal("expected addr flag")
	}
	if flag.Shorthand != "a" || flag.DefValue != config.DefaultAddr {
		t.Errorf("unexpected addr flag %q/%q", flag.Shorthand, flag.DefValue)
	}
	for _, name := range []string{"top", "timeout", "alphabet", "stop-words", "skip-unchanged", "db-dir", "config"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("expected %s flag", name)
		}
	}
}

// TestBuildServeConfig tests configuration building for serve.
func TestBuildServeConfig(t *testing.T) {
	t.Parallel()

	t.Run("flags", func(t *testing.T) {
		t.Parallel()

		cmd := NewServeCmd()
		_ = cmd.Flags().Set("config", writeConfig(t, "{}\n"))
		_ = cmd.Flags().Set("addr", ":8080")
		_ = cmd.Flags().Set("top", "7")

		cfg, err := buildServeConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Addr != ":8080" || cfg.Top != 7 {
			t.Errorf("flags not applied: %+v", cfg)
		}
		if err := cfg.ValidateOptions(); err != nil {
			t.Errorf("expected valid options, got %v", err)
		}
	})

	t.Run("address from config file", func(t *testing.T) {
		t.Parallel()

		cmd := NewServeCmd()
		_ = cmd.Flags().Set("config", writeConfig(t, "server:\n  addr: \":9999\"\n"))

		cfg, err := buildServeConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Addr != ":9999" {
			t.Errorf("expected address from file, got %q", cfg.Addr)
		}
	})
}

// TestRunServe starts the server, calls it and shuts it down.
func TestRunServe(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)
	cfg.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lines := make(lineWriter, 1)
	errCh := make(chan error, 1)
	go func() {
		errCh <- runServe(ctx, cfg, lines, discardLogger())
	}()

	var line string
	select {
	case line = <-lines:
	case err := <-errCh:
		t.Fatalf("server failed to start: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	match := regexp.MustCompile(`http://\S+`).FindString(line)
	if match == "" {
		t.Fatalf("no address in %q", line)
	}

	resp, err := http.Get(match + "/app-version") //nolint:noctx // test request
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Status != "success" {
		t.Errorf("expected success, got %q", body.Status)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}

// TestRunServeCmdInvalidOptions tests that bad options fail before listening.
func TestRunServeCmdInvalidOptions(t *testing.T) {
	t.Parallel()

	cmd := NewServeCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--config", writeConfig(t, "{}\n"), "--alphabet", "klingon", "--db-dir", t.TempDir()})
	if err := cmd.Execute(); err == nil {
		t.Error("expected configuration error")
	}
}
