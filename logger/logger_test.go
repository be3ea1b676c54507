package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromCtxReturnsInjectedLogger(t *testing.T) {
	var buf bytes.Buffer
	reqLog := New(&buf, true).With("request_id", "abc")

	ctx := WithLogger(context.Background(), reqLog)
	FromCtx(ctx).Info("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "abc", line["request_id"])
}

func TestFromCtxFallsBackToBase(t *testing.T) {
	assert.Same(t, L, FromCtx(context.Background()))
}
