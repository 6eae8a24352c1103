// Package ticker implements the root price widget: eight digit strips, the
// current price and the feed's last-updated label.
//
// The widget is a plain state machine. Update consumes one message, mutates
// state synchronously and returns the commands the caller must run (fetch the
// feed, arm the interval timer). It performs no I/O itself; the program package
// runs the commands and feeds their results back in as messages.
package ticker
