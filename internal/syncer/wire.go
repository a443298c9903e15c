package syncer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/claude/fittrack/internal/program"
)

// WireProgram is a program in the backend's JSON shape: snake_case keys,
// nested workouts, exercises and sets.
type WireProgram map[string]any

// ToWire converts p to the backend's shape.
func ToWire(p program.Program) (WireProgram, error) {
	v, err := toValue(p)
	if err != nil {
		return nil, fmt.Errorf("encoding program: %w", err)
	}
	v, err = CoerceNumbers(TransformKeys(v, SnakeCase))
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("encoding program: got %T, want object", v)
	}
	return WireProgram(m), nil
}

// FromWire converts a backend program back to a Program. Keys the Program
// type doesn't know are ignored.
func FromWire(w WireProgram) (program.Program, error) {
	v, err := CoerceNumbers(TransformKeys(map[string]any(w), CamelCase))
	if err != nil {
		return program.Program{}, err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return program.Program{}, fmt.Errorf("decoding program: %w", err)
	}
	var p program.Program
	if err := json.Unmarshal(data, &p); err != nil {
		return program.Program{}, fmt.Errorf("decoding program: %w", err)
	}
	return p, nil
}

// toValue round-trips v through JSON into maps, slices and scalars. Numbers stay
// json.Number so int64 ids survive intact.
func toValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return decodeValue(data)
}

func decodeValue(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// TransformKeys returns a copy of v with every object key, at any depth, passed
// through fn. Arrays are walked; scalars are returned unchanged.
func TransformKeys(v any, fn func(string) string) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fn(k)] = TransformKeys(val, fn)
		}
		return out
	case WireProgram:
		return TransformKeys(map[string]any(t), fn)
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = TransformKeys(val, fn)
		}
		return out
	default:
		return v
	}
}

// SnakeCase converts camelCase to snake_case. Runs of capitals are kept as one
// word, so "imageURL" becomes "image_url".
func SnakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CamelCase converts snake_case to camelCase. Keys without underscores pass through.
func CamelCase(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}
	parts := strings.Split(s, "_")
	var b strings.Builder
	b.Grow(len(s))
	b.WriteString(parts[0])
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		r := []rune(part)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

// CoerceNumbers walks v and normalises "weight" and "reps" values: an empty string
// becomes null and a numeric string becomes a number. Anything else not numeric is a
// validation error.
func CoerceNumbers(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			var err error
			switch k {
			case "weight":
				val, err = coerceNumber(k, val, false)
			case "reps":
				val, err = coerceNumber(k, val, true)
			default:
				val, err = CoerceNumbers(val)
			}
			if err != nil {
				return nil, err
			}
			out[k] = val
		}
		return out, nil
	case WireProgram:
		return CoerceNumbers(map[string]any(t))
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			c, err := CoerceNumbers(val)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	default:
		return v, nil
	}
}

func coerceNumber(key string, v any, integer bool) (any, error) {
	s, ok := v.(string)
	if !ok {
		switch v.(type) {
		case nil, json.Number, float64, float32, int, int64:
			return v, nil
		}
		return nil, fmt.Errorf("%w: %s has type %T", ErrValidation, key, v)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if integer {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %q is not an integer", ErrValidation, key, s)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: %s %q is not a number", ErrValidation, key, s)
	}
	return f, nil
}
