package utils

import (
	"net"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

// ClientIP prefers the first X-Forwarded-For hop over the remote address.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		ip, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(ip)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// LogEvent writes one audit record for a request outcome. eventType tags the
// endpoint the event belongs to.
func LogEvent(r *http.Request, eventType string, level logrus.Level, message string, fields logrus.Fields) {
	entry := Logger.WithFields(logrus.Fields{
		"event_type":   eventType,
		"browser_info": r.UserAgent(),
		"ip_address":   ClientIP(r),
	})
	if id := StringFromContext(r.Context(), RequestIDKey); id != "" {
		entry = entry.WithField("request_id", id)
	}
	if user := StringFromContext(r.Context(), UserIDKey); user != "" {
		entry = entry.WithField("user_id", user)
	}
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Log(level, message)
}
