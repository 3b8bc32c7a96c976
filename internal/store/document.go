package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tides-mcp/tides/internal/tides"
)

// documentVersion is the on-disk format written by this package.
const documentVersion = 1

// document is the persisted layout: {"version": 1, "tides": [...]}.
// Files holding a bare array of tides are read as version 0.
type document struct {
	Version int          `json:"version"`
	Tides   []tides.Tide `json:"tides"`
}

// encodeDocument renders c and validates the result. The returned bytes
// are exactly what will be written.
func encodeDocument(c *tides.Collection) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil collection", tides.ErrInvalidDocument)
	}
	c.Normalize()

	if err := checkIDs(c.Tides); err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(document{Version: documentVersion, Tides: c.Tides}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: marshaling: %v", tides.ErrInvalidDocument, err)
	}
	data = append(data, '\n')

	if err := validateDocument(data); err != nil {
		return nil, err
	}
	return data, nil
}

// decodeDocument parses either document form and runs the same
// validation used before writes.
func decodeDocument(data []byte) (*tides.Collection, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("file is empty")
	}

	var list []tides.Tide
	switch trimmed[0] {
	case '[':
		if err := strictUnmarshal(trimmed, &list); err != nil {
			return nil, err
		}
	case '{':
		var doc document
		if err := strictUnmarshal(trimmed, &doc); err != nil {
			return nil, err
		}
		if doc.Version < 1 || doc.Version > documentVersion {
			return nil, fmt.Errorf("unsupported document version %d", doc.Version)
		}
		list = doc.Tides
	default:
		return nil, errors.New("expected a JSON object or array")
	}

	c := &tides.Collection{Tides: list}
	if _, err := encodeDocument(c); err != nil {
		return nil, err
	}
	return c, nil
}

// strictUnmarshal rejects unknown fields so a newer file is never
// silently truncated by a rewrite.
func strictUnmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("parsing JSON: %w", err)
	}
	if dec.More() {
		return errors.New("parsing JSON: trailing data after document")
	}
	return nil
}

// checkIDs enforces id uniqueness, which the schema cannot express.
func checkIDs(list []tides.Tide) error {
	seen := make(map[string]struct{}, len(list))
	for _, t := range list {
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("%w: duplicate tide id %q", tides.ErrInvalidDocument, t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}
