package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	ctx := context.Background()
	l.Info(ctx, "hello", "k", "v")
	require.Contains(t, buf.String(), `"msg":"hello"`)
	require.Contains(t, buf.String(), `"k":"v"`)

	buf.Reset()
	child := l.With("tenant", "3-1")
	child.Warn(ctx, "careful")
	out := buf.String()
	require.Contains(t, out, `"tenant":"3-1"`)
	require.True(t, strings.Contains(out, `"level":"WARN"`))
}
