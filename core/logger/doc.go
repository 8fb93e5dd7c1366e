// Package logger provides the structured zap logger used across the app.
//
// Two encodings are supported: human-readable console output for local
// development and JSON for hosted deployments. The WithRayID helper attaches
// the per-request ray id injected by the rayid middleware so every log line
// produced while serving a request can be correlated.
package logger
