// Package httpserver provides a graceful HTTP server wrapper with
// environment configuration and probe handlers for the service entrypoint.
package httpserver
