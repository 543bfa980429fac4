package models

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// lenientFieldMaps caches JSON tag -> struct field index mappings per type.
var lenientFieldMaps sync.Map

func lenientFieldMap(t reflect.Type) map[string]int {
	if cached, ok := lenientFieldMaps.Load(t); ok {
		return cached.(map[string]int)
	}
	m := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		m[strings.Split(tag, ",")[0]] = i
	}
	lenientFieldMaps.Store(t, m)
	return m
}

// UnmarshalLenient decodes a JSON object into out (a pointer to struct),
// accepting quoted scalars where the struct expects numbers or booleans.
// Some upstream payloads (notably older series archives) serialize every
// counter as a string; strict decoding would reject the whole document over
// one quoted field.
func UnmarshalLenient(data []byte, out any) error {
	// Fast path for payloads with native types throughout.
	if err := json.Unmarshal(data, out); err == nil {
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("lenient unmarshal: %w", err)
	}

	v := reflect.ValueOf(out).Elem()
	fields := lenientFieldMap(v.Type())

	for key, rawVal := range raw {
		idx, ok := fields[key]
		if !ok {
			continue
		}
		fv := v.Field(idx)
		if !fv.CanSet() {
			continue
		}

		ptr := reflect.New(fv.Type())
		if err := json.Unmarshal(rawVal, ptr.Interface()); err == nil {
			fv.Set(ptr.Elem())
			continue
		}

		// Mismatch: only a quoted scalar is recoverable.
		var s string
		if err := json.Unmarshal(rawVal, &s); err != nil || s == "" {
			continue
		}
		setFromString(fv, s)
	}

	return nil
}

// setFromString coerces a string value onto a numeric, bool, or string field.
// Unparseable values leave the field at its zero value.
func setFromString(fv reflect.Value, s string) {
	switch fv.Kind() {
	case reflect.String:
		fv.SetString(s)
		return
	case reflect.Bool:
		if b, err := strconv.ParseBool(s); err == nil {
			fv.SetBool(b)
		}
		return
	}

	// Numeric targets share one parse; "28.0" counters show up as floats.
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return
	}
	switch fv.Kind() {
	case reflect.Float32, reflect.Float64:
		fv.SetFloat(n)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		fv.SetInt(int64(n))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if n >= 0 {
			fv.SetUint(uint64(n))
		}
	}
}

// UnmarshalJSON keeps PlayerState decodable from archived payloads that
// quote their counters.
func (p *PlayerState) UnmarshalJSON(data []byte) error {
	// Alias prevents infinite recursion
	type alias PlayerState
	return UnmarshalLenient(data, (*alias)(p))
}
