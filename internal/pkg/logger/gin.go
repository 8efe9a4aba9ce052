package logger

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

// accessSkipPaths 探活与指标抓取不写访问日志
var accessSkipPaths = []string{"/metrics", "/api/ping"}

func SetupGin(r *gin.Engine) {
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Output:    LogWriter,
		SkipPaths: accessSkipPaths,
		Formatter: formatAccess,
	}))

	r.Use(gin.Recovery())
}

func formatAccess(p gin.LogFormatterParams) string {
	var (
		traceID string
		userID  uint64
	)
	if p.Keys != nil {
		traceID, _ = p.Keys[TraceIDKey].(string)
		userID, _ = p.Keys["user_id"].(uint64)
	}
	if traceID == "" && p.Request != nil {
		traceID, _ = p.Request.Context().Value(TraceIDKey).(string)
	}

	return fmt.Sprintf(
		`{"time":"%s","level":"INFO","msg":"GIN_ACCESS","trace_id":"%s","user_id":%d,"client_ip":"%s","method":"%s","path":"%s","status":%d,"latency":"%v"}`+"\n",
		p.TimeStamp.Format(time.RFC3339),
		traceID,
		userID,
		p.ClientIP,
		p.Method,
		p.Path,
		p.StatusCode,
		p.Latency,
	)
}
