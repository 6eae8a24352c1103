// Package view defines the declarative render tree produced by the ticker widgets.
//
// A tree is a pure projection of widget state. It has no behaviour of its own; it is
// rendered to HTML for browsers and inspected directly in tests.
package view
