// Package app wires the GrowthPulse server together: configuration,
// logging, the spreadsheet fetcher, the dashboard service and poller, the
// websocket hub, and the HTTP router. It owns startup ordering and graceful
// shutdown; everything else lives in the focused packages it composes.
package app
