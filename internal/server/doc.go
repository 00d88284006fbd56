// Package server implements the HTTP and WebSocket side of the chat relay.
//
// The implementation is organized into specialized files for configuration,
// origin checks, rate limiting, hub management, clients, routing, and HTTP
// handlers. Chat semantics live in package chat; this package only moves
// frames between sockets and sessions.
package server
