package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveServeAddr(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	ts.settings.settings.Server.Addr = "0.0.0.0:8080"
	assert.Equal(t, "0.0.0.0:8080", resolveServeAddr())

	serveAddr = ":9000"
	assert.Equal(t, ":9000", resolveServeAddr())

	serveAddr = ""
	ts.settings.settings.Server.Addr = ""
	assert.Equal(t, defaultServeAddr, resolveServeAddr())

	settingsService = nil
	assert.Equal(t, defaultServeAddr, resolveServeAddr())
}

func TestServeCmd_StopsWithContext(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"serve", "--addr", "127.0.0.1:0"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.ExecuteContext(ctx)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "listening on http://127.0.0.1:0")
}

func TestServeCmd_ServiceNotConfigured(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	chatService = nil

	_, err := runWithInput(t, "", "serve")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat service not configured")
}
