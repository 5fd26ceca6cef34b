package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source yields raw catalog records in catalog order
type Source interface {
	Load(ctx context.Context) ([]RawRecord, error)
	Name() string
}

// Format of a serialized catalog document
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format by file extension, defaulting to JSON
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// FileSource reads a catalog document from disk on every Load
type FileSource struct {
	Path string
}

// NewFileSource creates a FileSource
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Name identifies the source in logs
func (s *FileSource) Name() string {
	return "file:" + s.Path
}

// Load reads and decodes the catalog file
func (s *FileSource) Load(ctx context.Context) ([]RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", s.Path, err)
	}

	records, err := Decode(data, FormatFromPath(s.Path))
	if err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", s.Path, err)
	}
	return records, nil
}

// Decode parses a catalog document. The top level is either an array of
// records or an object holding one under "events". Array elements that are
// not objects become empty records so positions are preserved.
func Decode(data []byte, format Format) ([]RawRecord, error) {
	var doc any

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
	}

	if obj, ok := doc.(map[string]any); ok {
		doc = obj["events"]
	}

	items, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("catalog must be a list of events, got %T", doc)
	}

	records := make([]RawRecord, len(items))
	for i, item := range items {
		if m, ok := item.(map[string]any); ok {
			records[i] = RawRecord(m)
		}
	}
	return records, nil
}

// StaticSource serves a fixed set of records, used by tests
type StaticSource struct {
	Records []RawRecord
}

// Name identifies the source in logs
func (s *StaticSource) Name() string {
	return "static"
}

// Load returns the fixed records
func (s *StaticSource) Load(ctx context.Context) ([]RawRecord, error) {
	return s.Records, nil
}
