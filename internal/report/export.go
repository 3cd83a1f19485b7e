package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format is an export encoding.
type Format string

const (
	FormatHTML Format = "html"
	FormatText Format = "text"
)

// ParseFormat accepts "html", "htm", "text", and "txt".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "html", "htm":
		return FormatHTML, nil
	case "text", "txt":
		return FormatText, nil
	}
	return "", fmt.Errorf("report: unknown format %q (want html or text)", s)
}

// Ext returns the file extension for f.
func (f Format) Ext() string {
	if f == FormatText {
		return "txt"
	}
	return "html"
}

// Render encodes doc in format f.
func Render(doc *Document, f Format, style HTMLStyle) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	if f == FormatText {
		err = WriteText(&buf, doc)
	} else {
		err = WriteStyledHTML(&buf, doc, style)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Export writes doc into dir as <Client>_Tech_Stack.<ext> and returns the path.
func Export(dir string, doc *Document, f Format, style HTMLStyle) (string, error) {
	data, err := Render(doc, f, style)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("report: creating %s: %w", dir, err)
	}
	path := filepath.Join(dir, doc.Filename(f.Ext()))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("report: writing %s: %w", path, err)
	}
	return path, nil
}
