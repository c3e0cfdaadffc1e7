// Package server exposes the layout pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz              liveness and build version
//	POST /v1/resolve           document → resolved references (JSON)
//	POST /v1/render?format=svg document → rendered artifact
//
// Request bodies are layout documents. JSON is the default; send
// Content-Type application/yaml or application/toml for the other formats.
// Query parameters viewport=WxH, strict=true and measurer=approx override
// resolver settings for a single request.
//
// Errors are returned as {"error": "...", "code": "..."} with a status
// derived from the error code: input and configuration problems map to 400,
// unsupported formats to 501 and everything else to 500.
package server
