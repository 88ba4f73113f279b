package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenWriter fails every body write, like a client that went away.
type brokenWriter struct {
	*httptest.ResponseRecorder
	writes int
}

func (b *brokenWriter) Write(p []byte) (int, error) {
	b.writes++
	return 0, errors.New("connection reset")
}

func TestSSEWriter_Format(t *testing.T) {
	rec := httptest.NewRecorder()
	sse, err := NewSSEWriter(rec)
	require.NoError(t, err)

	require.NoError(t, sse.WriteEvent("step", map[string]string{"message": "<b>fit</b> & more"}))
	require.NoError(t, sse.WriteComplete("run-1", map[string]int{"updated_score": 70}))

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t,
		"id: 1\nevent: step\ndata: {\"message\":\"<b>fit</b> & more\"}\n\n"+
			"id: 2\nevent: complete\ndata: {\"report\":{\"updated_score\":70},\"run_id\":\"run-1\"}\n\n",
		rec.Body.String())
	assert.True(t, rec.Flushed)
}

func TestSSEWriter_StopsAfterFailedWrite(t *testing.T) {
	w := &brokenWriter{ResponseRecorder: httptest.NewRecorder()}
	sse, err := NewSSEWriter(w)
	require.NoError(t, err)

	assert.Error(t, sse.WriteEvent("step", "one"))
	assert.ErrorIs(t, sse.WriteEvent("step", "two"), errStreamClosed)
	assert.ErrorIs(t, sse.WriteComplete("run-1", nil), errStreamClosed)
	assert.Equal(t, 1, w.writes)
}

type plainWriter struct{ http.ResponseWriter }

func TestNewSSEWriter_RequiresFlusher(t *testing.T) {
	_, err := NewSSEWriter(plainWriter{httptest.NewRecorder()})
	assert.Error(t, err)
}
