package health

import (
	"encoding/json"
	"reflect"
	"strings"
	"time"
)

// Entry is the outcome of one executed check.
type Entry struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      Status `json:"status"`

	// Error is set only when error inclusion is enabled and the check failed
	// with an error.
	Error string `json:"error,omitempty"`

	// DurationMs is set only when duration tracking is enabled.
	DurationMs *float64 `json:"durationMs,omitempty"`

	Data map[string]any `json:"data,omitempty"`
	Tags []string       `json:"tags,omitempty"`
}

// Report is the result of a detailed run. A returned Report is never
// modified by the aggregator.
type Report struct {
	Status          Status         `json:"status"`
	Checks          []Entry        `json:"checks"`
	TotalDurationMs *float64       `json:"totalDurationMs,omitempty"`
	Timestamp       time.Time      `json:"timestamp"`
	Data            map[string]any `json:"data,omitempty"`

	// ResultCode is the transport status code derived from Status. It is not
	// part of the serialized document.
	ResultCode int `json:"-"`
}

// Entry returns the entry called name, ignoring case.
func (r *Report) Entry(name string) (Entry, bool) {
	for _, e := range r.Checks {
		if strings.EqualFold(e.Name, name) {
			return e, true
		}
	}
	return Entry{}, false
}

// JSON returns the serialized report document.
func (r *Report) JSON() ([]byte, error) {
	return json.Marshal(r)
}

func millis(d time.Duration) *float64 {
	ms := float64(d) / float64(time.Millisecond)
	return &ms
}

// copyData deep-copies nested maps and slices, returning nil for empty input.
func copyData(data map[string]any) map[string]any {
	if len(data) == 0 {
		return nil
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = copyValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = copyValue(inner)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return copyReflect(rv).Interface()
	default:
		return v
	}
}

// copyReflect copies any map, slice or array, recursing into elements.
// Pointers and structs are copied by value only.
func copyReflect(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), copyReflect(iter.Value()))
		}
		return out
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := range v.Len() {
			out.Index(i).Set(copyReflect(v.Index(i)))
		}
		return out
	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := range v.Len() {
			out.Index(i).Set(copyReflect(v.Index(i)))
		}
		return out
	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(copyReflect(v.Elem()))
		return out
	default:
		return v
	}
}

// mergeData layers details over static metadata.
func mergeData(metadata, details map[string]any) map[string]any {
	if len(metadata) == 0 {
		return copyData(details)
	}
	merged := copyData(metadata)
	for k, v := range details {
		merged[k] = copyValue(v)
	}
	return merged
}
