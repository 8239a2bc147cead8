package entity

import (
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Kind tags the primitive held by a Value.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
)

// Value wraps a cell value and provides type conversion helpers.
// Raw is nil, bool, float64 or string; use NewValue to get there.
type Value struct {
	Raw any
}

// NewValue normalizes a raw record value into one of the primitive kinds.
func NewValue(raw any) (val Value, err error) {

	switch v := raw.(type) {
	case nil:
	case string:
		val.Raw = v
	case bool:
		val.Raw = v
	case float64:
		val.Raw = v
	case float32:
		val.Raw = float64(v)
	case int:
		val.Raw = float64(v)
	case int8:
		val.Raw = float64(v)
	case int16:
		val.Raw = float64(v)
	case int32:
		val.Raw = float64(v)
	case int64:
		val.Raw = float64(v)
	case uint:
		val.Raw = float64(v)
	case uint8:
		val.Raw = float64(v)
	case uint16:
		val.Raw = float64(v)
	case uint32:
		val.Raw = float64(v)
	case uint64:
		val.Raw = float64(v)
	case time.Time:
		val.Raw = v.Format(time.RFC3339)
	case []byte:
		val.Raw = string(v)
	default:
		err = errors.Errorf("unsupported value type: %T", raw)
	}
	return
}

// Kind returns the kind of the wrapped primitive.
func (v Value) Kind() Kind {

	switch v.Raw.(type) {
	case bool:
		return Bool
	case float64:
		return Number
	case string:
		return String
	}
	return Null
}

// String returns the value coerced to a string, null being empty.
func (v Value) String() string {

	switch raw := v.Raw.(type) {
	case string:
		return raw
	case float64:
		return strconv.FormatFloat(raw, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(raw)
	}
	return ""
}

// Float returns the value as a float64.
func (v Value) Float() (float64, error) {
	f, ok := v.Raw.(float64)
	if !ok {
		return 0, errors.Errorf("value is not a number: %T", v.Raw)
	}
	return f, nil
}

// Bool returns the value as a bool.
func (v Value) Bool() (bool, error) {
	b, ok := v.Raw.(bool)
	if !ok {
		return false, errors.Errorf("value is not a bool: %T", v.Raw)
	}
	return b, nil
}
