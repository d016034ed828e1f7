package gateway

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Value is one node of the programmatic JSON tree the gateway returns for
// preview receipt output. Which members are populated depends on Kind:
// scalars carry Value, tuples and enums carry Fields, arrays carry Elements,
// and maps carry Entries. Scalar values arrive either as JSON strings
// (decimals, u64s) or as native JSON literals (bools), so Value is kept raw
// and decoded through the typed accessors.
type Value struct {
	Kind      string          `json:"kind,omitempty"`
	Value     json.RawMessage `json:"value,omitempty"`
	VariantID json.Number     `json:"variant_id,omitempty"`
	Fields    []Value         `json:"fields,omitempty"`
	Elements  []Value         `json:"elements,omitempty"`
	Entries   []Entry         `json:"entries,omitempty"`
}

// Entry is a key/value pair of a programmatic JSON map.
type Entry struct {
	Key   Value `json:"key"`
	Value Value `json:"value"`
}

// Field returns the i-th field, with an explicit error when the node has
// fewer fields than the protocol's struct layout requires.
func (v Value) Field(i int) (Value, error) {
	if i >= len(v.Fields) {
		return Value{}, fmt.Errorf("programmatic value has %d fields, need index %d", len(v.Fields), i)
	}
	return v.Fields[i], nil
}

// Str returns the node's scalar value as a string, unquoting JSON strings
// and rendering other literals verbatim.
func (v Value) Str() string {
	raw := strings.TrimSpace(string(v.Value))
	if raw == "" {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(v.Value, &s); err == nil {
			return s
		}
	}
	return raw
}

// Float parses the node's scalar value as a float64.
func (v Value) Float() (float64, error) {
	f, err := strconv.ParseFloat(v.Str(), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q as float: %w", v.Str(), err)
	}
	return f, nil
}

// Uint parses the node's scalar value as a uint64.
func (v Value) Uint() (uint64, error) {
	u, err := strconv.ParseUint(v.Str(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q as uint: %w", v.Str(), err)
	}
	return u, nil
}

// Bool parses the node's scalar value as a bool.
func (v Value) Bool() (bool, error) {
	switch v.Str() {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("parse %q as bool", v.Str())
	}
}

// Variant returns the enum variant discriminator, or -1 if the node has
// none.
func (v Value) Variant() int {
	if v.VariantID == "" {
		return -1
	}
	n, err := strconv.Atoi(v.VariantID.String())
	if err != nil {
		return -1
	}
	return n
}
