// Package log configures the zerolog logger shared by the SDK and its tools.
package log
