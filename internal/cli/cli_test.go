package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gal0-avrd/LongD-Arc/internal/arclength"
	"github.com/Gal0-avrd/LongD-Arc/internal/config"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestComputeJSON(t *testing.T) {
	out, err := run(t, "compute", "--function", "x^2", "--a", "0", "--b", "1", "--json")
	require.NoError(t, err)

	var res arclength.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "x", res.Variable)
	assert.InDelta(t, 1.4789428575445975, res.Numeric, 1e-12)
	assert.Len(t, res.Steps, 6)
}

func TestComputeText(t *testing.T) {
	out, err := run(t, "compute", "-f", "cosh(x)", "--a", "0", "--b", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "f(x) = \\cosh{\\left(x \\right)}")
	assert.Contains(t, out, "6. Resultado exacto:")
	assert.Contains(t, out, "L = sinh(1)")
}

func TestComputeFailure(t *testing.T) {
	_, err := run(t, "compute", "--function", "x*y", "--a", "0", "--b", "1")
	require.Error(t, err)
	assert.Equal(t, "Error en el cálculo: la función debe tener solo una variable, pero se encontraron: x, y", err.Error())
	assert.True(t, arclength.IsKind(err, arclength.KindAmbiguousVariable))
}

func TestComputeRequiresFlags(t *testing.T) {
	_, err := run(t, "compute", "--function", "x")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	log, err := newLogger(config.Config{Env: "production", LogLevel: "warn"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(-1))

	_, err = newLogger(config.Config{LogLevel: "chatty"})
	assert.Error(t, err)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	cfg := config.Load()
	cfg.Port = strconv.Itoa(port)
	cfg.LogLevel = "error"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, cfg) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://127.0.0.1:" + cfg.Port + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout):
		t.Fatal("server did not shut down")
	}
}
