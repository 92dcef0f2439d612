// Package broadcast implements the realtime channel: a registry of live
// websocket connections and the coordinator that fans inbound messages out
// to every registered peer.
//
// All registry state is owned by a single goroutine (actor pattern, commands
// in, replies out), so membership is mutated sequentially even though many
// connection read loops feed it concurrently.
package broadcast
