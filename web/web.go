// Package web holds the browser front end served by neuropredictor-server.
package web

import "embed"

// Static contains index.html and its assets.
//
//go:embed static
var Static embed.FS
