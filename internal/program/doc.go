// Package program runs the ticker widget.
//
// A Program owns the widget state and a single loop goroutine that drains a
// mailbox of messages one at a time; a handler always runs to completion before
// the next message is taken. Fetches run in their own goroutines and the
// interval timer runs on the clock; both only ever talk to the widget by
// enqueuing messages.
//
// After each message that changes the widget, observers receive a Frame holding
// a snapshot and a freshly rendered view.
package program
