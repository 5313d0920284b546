// Package telemetry wires OpenTelemetry exporters and meters for the
// coordination engine.
//
// It centralises trace provider setup, applies engine-specific resource
// attributes, and offers enrichment helpers that attach gate verdicts and
// coordination outcomes to spans so operators can correlate rejected batches
// with the principles that rejected them.
package telemetry
