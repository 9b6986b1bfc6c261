// Package configsource provides read-only hierarchical configuration backed by
// app-config YAML or TOML files and queried by dotted path.
package configsource

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	// ErrTypeMismatch is returned when a path exists but holds the wrong kind of value.
	ErrTypeMismatch = errors.New("config value has unexpected type")
	// ErrInvalidPath is returned for empty paths or paths with empty segments.
	ErrInvalidPath = errors.New("invalid config path")
	// ErrUnsupportedFormat is returned by Load for unknown file extensions.
	ErrUnsupportedFormat = errors.New("unsupported config format")
)

// Reader is the read-only hierarchical config contract consumed by the link
// resolver. Absent values are not errors: OptionalConfigArray returns
// (nil, nil) and OptionalString returns ("", false, nil).
type Reader interface {
	OptionalConfigArray(path string) ([]Reader, error)
	OptionalString(path string) (string, bool, error)
}

// Format names a supported file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Source is an immutable config tree. It is safe for concurrent readers.
type Source struct {
	prefix string
	root   map[string]any
}

// Empty returns a Source where every lookup is absent.
func Empty() *Source {
	return &Source{root: map[string]any{}}
}

// FromMap builds a Source from an already-decoded tree. The map is copied.
func FromMap(m map[string]any) *Source {
	tree, _ := normalize(m).(map[string]any)
	if tree == nil {
		tree = map[string]any{}
	}
	return &Source{root: tree}
}

// Parse decodes data in the given format.
func Parse(data []byte, format Format) (*Source, error) {
	raw := map[string]any{}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(err, "decode yaml config")
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return nil, errors.Wrap(err, "decode toml config")
		}
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "format %q", format)
	}
	return FromMap(raw), nil
}

// Load reads an app-config file, picking the decoder from its extension.
// String values of the form ${VAR} are expanded from the process environment.
// A missing file is reported with an error wrapping os.ErrNotExist.
func Load(path string) (*Source, error) {
	format, err := formatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	src, err := Parse(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "load config %s", path)
	}
	src.root = expandTree(src.root, os.Getenv).(map[string]any)
	return src, nil
}

func formatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", errors.Wrapf(ErrUnsupportedFormat, "extension of %s", path)
	}
}

// OptionalConfigArray returns the sub-configs stored at path.
func (s *Source) OptionalConfigArray(path string) ([]Reader, error) {
	value, ok, err := s.lookup(path)
	if err != nil || !ok {
		return nil, err
	}

	var items []any
	switch v := value.(type) {
	case []any:
		items = v
	case []map[string]any:
		items = make([]any, 0, len(v))
		for _, m := range v {
			items = append(items, m)
		}
	default:
		return nil, errors.Wrapf(ErrTypeMismatch, "%s: want array of objects, got %s", s.fullPath(path), typeName(value))
	}

	out := make([]Reader, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, errors.Wrapf(ErrTypeMismatch, "%s[%d]: want object, got %s", s.fullPath(path), i, typeName(item))
		}
		out = append(out, &Source{prefix: fmt.Sprintf("%s[%d]", s.fullPath(path), i), root: m})
	}
	return out, nil
}

// OptionalString returns the string stored at path.
func (s *Source) OptionalString(path string) (string, bool, error) {
	value, ok, err := s.lookup(path)
	if err != nil || !ok {
		return "", false, err
	}
	str, isString := value.(string)
	if !isString {
		return "", false, errors.Wrapf(ErrTypeMismatch, "%s: want string, got %s", s.fullPath(path), typeName(value))
	}
	return str, true, nil
}

func (s *Source) lookup(path string) (any, bool, error) {
	if strings.TrimSpace(path) == "" {
		return nil, false, errors.Wrap(ErrInvalidPath, "empty path")
	}
	segments := strings.Split(path, ".")
	var current any = s.root
	for i, segment := range segments {
		if segment == "" {
			return nil, false, errors.Wrapf(ErrInvalidPath, "%q has an empty segment", path)
		}
		m, ok := current.(map[string]any)
		if !ok {
			at := strings.Join(segments[:i], ".")
			return nil, false, errors.Wrapf(ErrTypeMismatch, "%s: want object, got %s", s.fullPath(at), typeName(current))
		}
		next, exists := m[segment]
		if !exists || next == nil {
			return nil, false, nil
		}
		current = next
	}
	return current, true, nil
}

func (s *Source) fullPath(path string) string {
	if s.prefix == "" {
		return path
	}
	if path == "" {
		return s.prefix
	}
	return s.prefix + "." + path
}

func typeName(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any, []map[string]any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int64, uint64, float64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// normalize converts decoder-specific container types into map[string]any and
// []any so lookups only deal with one shape.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []map[string]any:
		out := make([]any, 0, len(t))
		for _, val := range t {
			out = append(out, normalize(val))
		}
		return out
	case []any:
		out := make([]any, 0, len(t))
		for _, val := range t {
			out = append(out, normalize(val))
		}
		return out
	default:
		return v
	}
}

func expandTree(v any, mapping func(string) string) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = expandTree(val, mapping)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = expandTree(val, mapping)
		}
		return t
	case string:
		if strings.Contains(t, "${") {
			return os.Expand(t, mapping)
		}
		return t
	default:
		return v
	}
}
