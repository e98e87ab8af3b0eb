package main

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xReLogic/Greeter/internal/config"
	"github.com/0xReLogic/Greeter/internal/environ"
)

// lockedBuffer guards the dump output read by the test goroutine.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func waitForGet(t *testing.T, url string) *http.Response {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get(url)
		if err == nil {
			return resp
		}
		if time.Now().After(deadline) {
			t.Fatalf("server never answered %s: %v", url, err)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func startRun(t *testing.T, vars map[string]string) (string, *lockedBuffer, func() error) {
	t.Helper()
	port := freePort(t)
	if vars == nil {
		vars = map[string]string{}
	}
	vars["PORT"] = strconv.Itoa(port)

	stdout := &lockedBuffer{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, options{
			configPath: filepath.Join(t.TempDir(), "greeter.yaml"),
			stdout:     stdout,
			env:        environ.Map(vars),
		})
	}()

	stop := func() error {
		cancel()
		select {
		case err := <-done:
			return err
		case <-time.After(5 * time.Second):
			t.Fatal("run did not return after cancel")
			return nil
		}
	}
	return "http://127.0.0.1:" + strconv.Itoa(port), stdout, stop
}

func TestRunWithTestSet(t *testing.T) {
	base, stdout, stop := startRun(t, map[string]string{"TEST": "hello"})

	resp := waitForGet(t, base+"/")
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Hello, World!", string(body))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	require.NoError(t, stop())

	out := stdout.String()
	assert.Contains(t, out, "TEST hello\n")
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	assert.Equal(t, "hello", lines[len(lines)-1])
}

func TestRunWithTestUnset(t *testing.T) {
	base, stdout, stop := startRun(t, nil)

	resp := waitForGet(t, base+"/missing")
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	require.NoError(t, stop())

	lines := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")
	assert.Equal(t, environ.DefaultAbsent, lines[len(lines)-1])
}

func TestRunRejectsBadPort(t *testing.T) {
	err := run(context.Background(), options{
		configPath: filepath.Join(t.TempDir(), "greeter.yaml"),
		stdout:     io.Discard,
		env:        environ.Map(map[string]string{"PORT": "eighty"}),
	})
	assert.ErrorContains(t, err, "invalid PORT")
}

// resetRootCommand restores the flag state a test run of rootCmd leaves behind.
func resetRootCommand(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		f := rootCmd.Flags().Lookup("config")
		require.NoError(t, f.Value.Set(f.DefValue))
		f.Changed = false
	})
}

func TestPrintEnvironment(t *testing.T) {
	src := environ.Map(map[string]string{"HOME": "/root"})
	tests := []struct {
		name string
		cfg  config.EnvironmentConfig
		want string
	}{
		{
			name: "full dump",
			cfg:  config.EnvironmentConfig{Dump: true, Key: "TEST", Absent: "<nil>"},
			want: "environ(map[HOME:/root])\nHOME /root\n<nil>\n",
		},
		{
			name: "dump disabled still reports key",
			cfg:  config.EnvironmentConfig{Key: "TEST", Absent: "<nil>"},
			want: "<nil>\n",
		},
		{
			name: "dump disabled with present key",
			cfg:  config.EnvironmentConfig{Key: "HOME"},
			want: "/root\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, printEnvironment(&out, src, tt.cfg))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestRootCommandRejectsArguments(t *testing.T) {
	resetRootCommand(t)
	rootCmd.SetArgs([]string{"unexpected"})

	assert.Error(t, rootCmd.Execute())
}

func TestRootCommandRequiresExplicitConfig(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.yaml")
	resetRootCommand(t)
	rootCmd.SetArgs([]string{"--config", missing})

	err := rootCmd.Execute()
	assert.ErrorContains(t, err, "failed to load configuration")
}

func TestRootCommandFlagStateIsReset(t *testing.T) {
	t.Run("explicit config", func(t *testing.T) {
		resetRootCommand(t)
		rootCmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml")})
		assert.Error(t, rootCmd.Execute())
		assert.True(t, rootCmd.Flags().Changed("config"))
	})

	f := rootCmd.Flags().Lookup("config")
	assert.False(t, f.Changed)
	assert.Equal(t, "greeter.yaml", f.Value.String())
	assert.Equal(t, "greeter.yaml", configPath)
}
