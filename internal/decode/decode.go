package decode

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DecodeFunc constructs a model value from its wire payload. The registry
// is passed in so model decoders can recurse into nested descriptors.
type DecodeFunc func(r *Registry, data any) (any, error)

// ChildResolver is implemented by models that name a more specific
// registered subtype after construction (discriminated unions). The
// returned name is re-dispatched through the registry exactly once;
// returning false keeps the value as constructed.
type ChildResolver interface {
	ResolveChild(data map[string]any) (string, bool)
}

// FormatError reports a wire value that could not be parsed into its
// target kind. It carries the offending value so callers can diagnose
// malformed payloads without re-reading the wire.
type FormatError struct {
	Value  string
	Target string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot parse %q as %s: %v", e.Value, e.Target, e.Err)
	}
	return fmt.Sprintf("cannot parse %q as %s", e.Value, e.Target)
}

func (e *FormatError) Unwrap() error { return e.Err }

// UnknownTypeError reports a model descriptor that resolved against
// neither the domain nor the generated namespace.
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown model type %q", e.Name)
}

// Registry holds the model decoders a Deserialize call can resolve.
// Domain models shadow generated ones of the same name.
type Registry struct {
	domain    map[string]DecodeFunc
	generated map[string]DecodeFunc
}

// NewRegistry returns an empty registry. Populate it with Register and
// RegisterGenerated before handing it to concurrent callers; the maps
// are not synchronized.
func NewRegistry() *Registry {
	return &Registry{
		domain:    make(map[string]DecodeFunc),
		generated: make(map[string]DecodeFunc),
	}
}

// Register adds a decoder to the domain namespace.
func (r *Registry) Register(name string, fn DecodeFunc) {
	r.domain[name] = fn
}

// RegisterGenerated adds a decoder to the generated (resource-API)
// namespace, consulted only when the domain namespace has no entry.
func (r *Registry) RegisterGenerated(name string, fn DecodeFunc) {
	r.generated[name] = fn
}

// Deserialize converts data into the value described by descriptor.
//
// A nil input deserializes to nil for every descriptor. Primitive
// conversion is best-effort: a value that cannot be converted is
// returned unchanged rather than failing. Date and datetime parse
// failures return a *FormatError; unresolved model names return an
// *UnknownTypeError.
func (r *Registry) Deserialize(data any, descriptor string) (any, error) {
	if data == nil {
		return nil, nil
	}

	if elem, ok := listElem(descriptor); ok {
		return r.deserializeList(data, descriptor, elem)
	}
	if val, ok := dictValue(descriptor); ok {
		return r.deserializeDict(data, descriptor, val)
	}

	switch descriptor {
	case "str", "int", "float", "bool", "bytes":
		return deserializePrimitive(data, descriptor), nil
	case "object":
		return data, nil
	case "date":
		return deserializeDate(data)
	case "datetime":
		return deserializeDateTime(data)
	}

	return r.deserializeModel(data, descriptor)
}

// Field looks up wireKey in data and deserializes it when present.
// Absent keys return ok=false with no error, leaving the caller's field
// at its zero value.
func (r *Registry) Field(data map[string]any, wireKey, descriptor string) (any, bool, error) {
	raw, ok := data[wireKey]
	if !ok {
		return nil, false, nil
	}
	v, err := r.Deserialize(raw, descriptor)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// listElem extracts T from "list[T]".
func listElem(descriptor string) (string, bool) {
	if rest, ok := strings.CutPrefix(descriptor, "list["); ok && strings.HasSuffix(rest, "]") {
		return strings.TrimSuffix(rest, "]"), true
	}
	return "", false
}

// dictValue extracts V from "dict(K, V)". Keys are always treated as
// strings on the wire, so only the value descriptor matters.
func dictValue(descriptor string) (string, bool) {
	rest, ok := strings.CutPrefix(descriptor, "dict(")
	if !ok || !strings.HasSuffix(rest, ")") {
		return "", false
	}
	rest = strings.TrimSuffix(rest, ")")
	if _, val, found := strings.Cut(rest, ","); found {
		return strings.TrimSpace(val), true
	}
	return "", false
}

func (r *Registry) deserializeList(data any, descriptor, elem string) (any, error) {
	items, ok := data.([]any)
	if !ok {
		return nil, &FormatError{Value: fmt.Sprintf("%v", data), Target: descriptor}
	}
	out := make([]any, 0, len(items))
	for _, item := range items {
		v, err := r.Deserialize(item, elem)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *Registry) deserializeDict(data any, descriptor, val string) (any, error) {
	m, ok := data.(map[string]any)
	if !ok {
		return nil, &FormatError{Value: fmt.Sprintf("%v", data), Target: descriptor}
	}
	out := make(map[string]any, len(m))
	for k, raw := range m {
		v, err := r.Deserialize(raw, val)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func (r *Registry) deserializeModel(data any, name string) (any, error) {
	fn, ok := r.domain[name]
	if !ok {
		fn, ok = r.generated[name]
	}
	if !ok {
		return nil, &UnknownTypeError{Name: name}
	}

	v, err := fn(r, data)
	if err != nil {
		return nil, err
	}

	// Discriminated models name their concrete subtype only after the
	// base shape is decoded; re-dispatch once against that subtype.
	if cr, ok := v.(ChildResolver); ok {
		if m, ok := data.(map[string]any); ok {
			if child, ok := cr.ResolveChild(m); ok && child != name {
				return r.Deserialize(data, child)
			}
		}
	}
	return v, nil
}

// deserializePrimitive converts data into the named primitive kind.
// Conversion never fails: a value with no sensible conversion is
// returned unchanged.
func deserializePrimitive(data any, kind string) any {
	switch kind {
	case "str":
		switch v := data.(type) {
		case string:
			return v
		case []byte:
			return string(v)
		case bool, int, int32, int64, float32, float64:
			return fmt.Sprint(v)
		}
	case "int":
		switch v := data.(type) {
		case int:
			return int64(v)
		case int32:
			return int64(v)
		case int64:
			return v
		case float64:
			return int64(v)
		case string:
			if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
				return n
			}
		}
	case "float":
		switch v := data.(type) {
		case float64:
			return v
		case float32:
			return float64(v)
		case int:
			return float64(v)
		case int64:
			return float64(v)
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f
			}
		}
	case "bool":
		switch v := data.(type) {
		case bool:
			return v
		case string:
			if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
				return b
			}
		}
	case "bytes":
		switch v := data.(type) {
		case []byte:
			return v
		case string:
			return []byte(v)
		}
	}
	return data
}

// datetimeLayouts are tried in order for "datetime" descriptors.
var datetimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// dateLayouts are tried in order for "date" descriptors before falling
// back to the datetime layouts (a timestamp is a valid date source).
var dateLayouts = []string{
	"2006-01-02",
}

func deserializeDate(data any) (any, error) {
	s, ok := data.(string)
	if !ok {
		return nil, &FormatError{Value: fmt.Sprintf("%v", data), Target: "date"}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()), nil
		}
	}
	return nil, &FormatError{Value: s, Target: "date"}
}

func deserializeDateTime(data any) (any, error) {
	s, ok := data.(string)
	if !ok {
		return nil, &FormatError{Value: fmt.Sprintf("%v", data), Target: "datetime"}
	}
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return nil, &FormatError{Value: s, Target: "datetime"}
}
