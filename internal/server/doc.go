// Package server implements the HTTP server using Echo framework.
//
// Routes: analysis API (moderate/sentiment/summarize), websocket channel
// (/ws), health probes, and prometheus metrics. Handlers split by concern:
// handlers_api.go, handlers_ws.go, handlers_health.go.
package server
