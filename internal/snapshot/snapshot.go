// Package snapshot is the portable form of a stack: the selected app ids plus
// the report text fields. Save files, stored stacks, and share links all
// derive from it.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Snapshot is the canonical saved state.
type Snapshot struct {
	PreparerName    string `json:"preparerName"`
	PreparerAddress string `json:"preparerAddress"`
	ClientName      string `json:"clientName"`
	ClientAddress   string `json:"clientAddress"`
	Notes           string `json:"notes"`
	TechStackIDs    []int  `json:"techStackIds"`
}

// ParseError reports a save file that could not be decoded.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "snapshot: invalid save file: " + e.Err.Error() }

func (e *ParseError) Unwrap() error { return e.Err }

// Serialize encodes s as indented JSON terminated by a newline.
func Serialize(s Snapshot) ([]byte, error) {
	if s.TechStackIDs == nil {
		s.TechStackIDs = []int{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("snapshot: encoding: %w", err)
	}
	return buf.Bytes(), nil
}

// Deserialize decodes a save file. Missing fields default to empty; wrong
// types, non-integer ids, and non-object documents are a *ParseError.
func Deserialize(data []byte) (Snapshot, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Snapshot{}, &ParseError{Err: errors.New("empty document")}
	}
	if trimmed[0] != '{' {
		return Snapshot{}, &ParseError{Err: errors.New("document is not a JSON object")}
	}

	var s Snapshot
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return Snapshot{}, &ParseError{Err: err}
	}
	if s.TechStackIDs == nil {
		s.TechStackIDs = []int{}
	}
	return s, nil
}

const defaultClient = "My Business"

// Filename derives an artifact name from the client name, e.g.
// "Acme_Corp_Tech_Stack.json". ext may be given with or without the dot.
func Filename(clientName, ext string) string {
	name := strings.TrimSpace(clientName)
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsSpace(r):
			b.WriteRune('_')
		case strings.ContainsRune(`/\:*?"<>|`, r), unicode.IsControl(r):
		default:
			b.WriteRune(r)
		}
	}
	base := strings.Trim(b.String(), "._")
	if base == "" {
		base = strings.ReplaceAll(defaultClient, " ", "_")
	}
	base += "_Tech_Stack"

	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return base
	}
	return base + "." + ext
}
