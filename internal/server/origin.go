package server

import (
	"log/slog"
	"net/http"
	"net/url"
)

// newCheckOrigin returns the websocket origin check. It allows empty origins
// (non-browser clients), the configured frontend origin, and localhost
// origins in development.
func newCheckOrigin(allowedOrigin string, isDevelopment bool) func(r *http.Request) bool {
	appOrigin := extractOrigin(allowedOrigin)

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		if origin == "" {
			return true
		}

		if origin == appOrigin {
			return true
		}

		if isDevelopment && isLocalhostOrigin(origin) {
			return true
		}

		slog.Warn("WebSocket origin rejected", "origin", origin, "remote_addr", r.RemoteAddr)
		return false
	}
}

func extractOrigin(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

func isLocalhostOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1"
}
