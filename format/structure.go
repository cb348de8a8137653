package format

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

const (
	FieldWidth  = "width"
	FieldHeight = "height"
	FieldFormat = "format"
)

// Structure is a format descriptor as delivered by format negotiation:
// a media type name and a set of string-keyed fields.
type Structure struct {
	Name   string
	Fields map[string]any
}

func NewStructure(name string) Structure {
	return Structure{
		Name:   name,
		Fields: map[string]any{},
	}
}

// NewVideoStructure is a shorthand to build a raw-video descriptor.
func NewVideoStructure(width, height int, layout PixelLayout) Structure {
	s := NewStructure("video/x-raw")
	s.Fields[FieldFormat] = layout.String()
	s.Fields[FieldWidth] = width
	s.Fields[FieldHeight] = height
	return s
}

// GetInt returns the field as an integer; ok is false if the field is
// missing or is not an integer (decimal strings are accepted).
func (s Structure) GetInt(key string) (_ int, ok bool) {
	v, ok := s.Fields[key]
	if !ok {
		return 0, false
	}
	switch v := v.(type) {
	case int:
		return v, true
	case int8:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case uint:
		if uint64(v) > math.MaxInt {
			return 0, false
		}
		return int(v), true
	case uint8:
		return int(v), true
	case uint16:
		return int(v), true
	case uint32:
		return int(v), true
	case uint64:
		if v > math.MaxInt {
			return 0, false
		}
		return int(v), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

// GetString returns the field as a string; ok is false if the field is missing.
func (s Structure) GetString(key string) (_ string, ok bool) {
	v, ok := s.Fields[key]
	if !ok {
		return "", false
	}
	if str, isStr := v.(string); isStr {
		return str, true
	}
	return fmt.Sprint(v), true
}

func (s Structure) String() string {
	keys := make([]string, 0, len(s.Fields))
	for k := range s.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(s.Name)
	for _, k := range keys {
		switch v := s.Fields[k].(type) {
		case string:
			fmt.Fprintf(&b, ", %s=(string)%s", k, v)
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			fmt.Fprintf(&b, ", %s=(int)%d", k, v)
		default:
			fmt.Fprintf(&b, ", %s=%v", k, v)
		}
	}
	return b.String()
}

// ParseStructure parses the textual descriptor form, e.g.:
//
//	video/x-raw, format=BGR, width=(int)320, height=240
//
// A value may be prefixed with a "(int)" or "(string)" type; untyped values
// become integers if they look like ones and strings otherwise.
func ParseStructure(s string) (Structure, error) {
	parts := strings.Split(s, ",")
	name := strings.TrimSpace(parts[0])
	if name == "" {
		return Structure{}, fmt.Errorf("empty structure name in '%s'", s)
	}
	result := NewStructure(name)
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, found := strings.Cut(part, "=")
		if !found {
			return Structure{}, fmt.Errorf("field '%s' has no value", part)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" {
			return Structure{}, fmt.Errorf("empty field name in '%s'", part)
		}
		v, err := parseValue(value)
		if err != nil {
			return Structure{}, fmt.Errorf("unable to parse field '%s': %w", key, err)
		}
		result.Fields[key] = v
	}
	return result, nil
}

func parseValue(value string) (any, error) {
	typeName := ""
	if strings.HasPrefix(value, "(") {
		end := strings.Index(value, ")")
		if end < 0 {
			return nil, fmt.Errorf("unterminated type in '%s'", value)
		}
		typeName = value[1:end]
		value = strings.TrimSpace(value[end+1:])
	}
	value = strings.Trim(value, `"`)
	switch typeName {
	case "int", "i":
		i, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("'%s' is not an integer: %w", value, err)
		}
		return i, nil
	case "string", "s":
		return value, nil
	case "":
		if i, err := strconv.Atoi(value); err == nil {
			return i, nil
		}
		return value, nil
	default:
		return value, nil
	}
}
