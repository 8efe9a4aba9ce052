package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAccess_IsJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/feed", nil)
	line := formatAccess(gin.LogFormatterParams{
		Request:    req,
		TimeStamp:  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		StatusCode: http.StatusOK,
		Latency:    3 * time.Millisecond,
		ClientIP:   "10.0.0.1",
		Method:     http.MethodGet,
		Path:       "/api/feed",
		Keys:       map[any]any{TraceIDKey: "http-1", "user_id": uint64(7)},
	})

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "GIN_ACCESS", entry["msg"])
	assert.Equal(t, "http-1", entry[TraceIDKey])
	assert.EqualValues(t, 7, entry["user_id"])
	assert.Equal(t, "10.0.0.1", entry["client_ip"])
	assert.EqualValues(t, 200, entry["status"])
}

func TestFormatAccess_TraceFromRequestContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req = req.WithContext(WithTraceID(req.Context(), "ctx-9"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(formatAccess(gin.LogFormatterParams{Request: req})), &entry))
	assert.Equal(t, "ctx-9", entry[TraceIDKey])
	assert.EqualValues(t, 0, entry["user_id"])
}
