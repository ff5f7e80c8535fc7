package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger_AddsContextAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupLogger("production", &buf)
	defer SetupLogger(os.Getenv("APP_ENV"), os.Stdout)

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithUserID(ctx, "2")
	logger.InfoContext(ctx, "hello")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "req-1", rec["request_id"])
	assert.Equal(t, "2", rec["user_id"])
	assert.NotContains(t, rec, "trace_id")
}

func TestRepoLogger_RespectsToggle(t *testing.T) {
	var buf bytes.Buffer
	SetupLogger("production", &buf)
	defer SetupLogger(os.Getenv("APP_ENV"), os.Stdout)

	orig := Config.EnableRepoLogging
	defer func() { Config.EnableRepoLogging = orig }()

	l := NewRepoLogger("posts")

	Config.EnableRepoLogging = false
	l.LogCreate(context.Background(), map[string]any{"id": "1"})
	l.LogError(context.Background(), errors.New("boom"), "create")
	assert.Zero(t, buf.Len())

	Config.EnableRepoLogging = true
	l.LogDelete(context.Background(), map[string]any{"id": "1"})
	assert.Contains(t, buf.String(), `"operation":"delete"`)
	assert.Contains(t, buf.String(), `"table":"posts"`)
}

func TestExtractors_EmptyContext(t *testing.T) {
	assert.Empty(t, ExtractRequestID(context.Background()))
	assert.Empty(t, ExtractUserID(context.Background()))
}
