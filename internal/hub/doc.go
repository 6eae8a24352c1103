// Package hub fans ticker frames out to browser WebSocket connections.
//
// Each connection gets its own buffered send channel drained by a write pump.
// Broadcast never blocks: a client whose buffer is full is disconnected.
package hub
