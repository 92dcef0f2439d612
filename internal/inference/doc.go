// Package inference is the HTTP adapter for the model inference server.
//
// The server hosts pretrained text-classification pipelines and is treated
// as a black box: text in, (label, score) out. A circuit breaker guards the
// upstream; an open circuit surfaces as an error to the caller, it never
// substitutes a result.
package inference
