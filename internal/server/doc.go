// Package server exposes the ticker over HTTP: the widget page, a WebSocket
// push endpoint, a JSON snapshot and a health check.
package server
