package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	gameplaytags "github.com/mkislenko/com.radiodecadance.gameplaytags"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a tag list file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ParseFormat validates a format name such as "yaml" or "text".
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatYAML, FormatTOML, FormatJSON, FormatText:
		return f, nil
	}
	return "", gameplaytags.NewValidationError("source.ParseFormat", gameplaytags.ErrUnknownFormat).
		WithContext(map[string]any{"format": name})
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	case ".txt", ".tags":
		return FormatText, nil
	}
	return "", gameplaytags.NewValidationError("source.FormatFromPath", gameplaytags.ErrUnknownFormat).
		WithContext(map[string]any{"path": path})
}

// tagList is the document shape shared by the structured formats:
//
//	tags:
//	  - Combat.Damage.Fire
//	  - Status.Debuff.Slow
type tagList struct {
	Tags []string `yaml:"tags" json:"tags" toml:"tags"`
}

// Parse decodes a tag list in the given format. YAML and JSON documents may
// also be a bare list of strings. Text lists hold one path per line; blank
// lines and lines starting with # are ignored.
//
// The result is not canonicalized.
func Parse(format Format, data []byte) ([]string, error) {
	var doc tagList

	switch format {
	case FormatYAML:
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, fmt.Errorf("parse yaml tag list: %w", err)
		}
		if len(node.Content) == 0 {
			return nil, nil
		}
		if node.Content[0].Kind == yaml.SequenceNode {
			return decodeYAMLList(node.Content[0])
		}
		if err := node.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parse yaml tag list: %w", err)
		}

	case FormatJSON:
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			var list []string
			if err := json.Unmarshal(trimmed, &list); err != nil {
				return nil, fmt.Errorf("parse json tag list: %w", err)
			}
			return list, nil
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse json tag list: %w", err)
		}

	case FormatTOML:
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, fmt.Errorf("parse toml tag list: %w", err)
		}

	case FormatText:
		return parseText(data)

	default:
		return nil, gameplaytags.NewValidationError("source.Parse", gameplaytags.ErrUnknownFormat).
			WithContext(map[string]any{"format": string(format)})
	}

	return doc.Tags, nil
}

func decodeYAMLList(node *yaml.Node) ([]string, error) {
	var list []string
	if err := node.Decode(&list); err != nil {
		return nil, fmt.Errorf("parse yaml tag list: %w", err)
	}
	return list, nil
}

func parseText(data []byte) ([]string, error) {
	var paths []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		paths = append(paths, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read text tag list: %w", err)
	}
	return paths, nil
}

// File reads the tag universe from a file on every Paths call.
type File struct {
	path   string
	format Format
	logger *slog.Logger
}

// FileOption configures a File source.
type FileOption func(*File)

// WithFormat overrides extension-based format detection.
func WithFormat(format Format) FileOption {
	return func(f *File) {
		f.format = format
	}
}

// WithFileLogger sets the logger used to report skipped entries.
func WithFileLogger(logger *slog.Logger) FileOption {
	return func(f *File) {
		f.logger = logger
	}
}

// NewFile returns a source reading path.
func NewFile(path string, opts ...FileOption) *File {
	f := &File{path: path, logger: slog.Default()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Path returns the file the source reads.
func (f *File) Path() string {
	return f.path
}

// Paths reads and parses the file.
func (f *File) Paths(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	format := f.format
	if format == "" {
		var err error
		if format, err = FormatFromPath(f.path); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read tag file %s: %w", f.path, err)
	}

	raw, err := Parse(format, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.path, err)
	}

	return canonical(raw, f.logger, f.path), nil
}
