package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	// OutputFormatText is the default human-readable format.
	OutputFormatText OutputFormat = "text"
	// OutputFormatJSON outputs data as JSON.
	OutputFormatJSON OutputFormat = "json"
)

// ParseOutputFormat resolves a user-supplied output format name.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputFormatText, OutputFormatJSON:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want text or json)", s)
	}
}

// OutputWriter handles formatted output.
type OutputWriter struct {
	format OutputFormat
	writer io.Writer
}

// NewOutputWriter creates a new OutputWriter.
func NewOutputWriter(format OutputFormat) *OutputWriter {
	return &OutputWriter{
		format: format,
		writer: os.Stdout,
	}
}

// WriteJSON writes data as JSON to stdout.
func (o *OutputWriter) WriteJSON(data any) error {
	encoder := json.NewEncoder(o.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Write writes data according to the configured format. textFunc is called
// for text output, data is used for JSON output.
func (o *OutputWriter) Write(data any, textFunc func()) error {
	if o.format == OutputFormatJSON {
		return o.WriteJSON(data)
	}
	textFunc()
	return nil
}
