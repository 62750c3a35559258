package endpoints

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocs(t *testing.T) {
	e := newTestEnv(t)

	w := e.doWithToken(t, "GET", "/docs", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(t, body, "<h1>Identity Admin API</h1>")
	assert.Contains(t, body, "<table>")
	assert.Contains(t, body, "<code>/roles/{id}/members</code>")
}
