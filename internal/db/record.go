package db

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-viper/mapstructure/v2"
)

// reservedPrefix marks internal attribute names. It is stripped from any name
// a caller supplies, so "_token" and "token" address the same attribute.
const reservedPrefix = "_"

// Record is the in-memory attribute bag of one configuration domain.
// The zero value is an empty record ready to use.
type Record struct {
	mu     sync.RWMutex
	values map[string]interface{}
}

func attributeName(name string) string {
	return strings.TrimPrefix(name, reservedPrefix)
}

// SetData assigns every value of data to the record. With onlyExisting set,
// names the record does not already carry are ignored.
func (r *Record) SetData(data map[string]interface{}, onlyExisting bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.values == nil {
		r.values = make(map[string]interface{}, len(data))
	}

	for key, value := range data {
		name := attributeName(key)
		if _, ok := r.values[name]; ok || !onlyExisting {
			r.values[name] = value
		}
	}
}

// GetData returns a copy of all public attributes.
func (r *Record) GetData() map[string]interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data := make(map[string]interface{}, len(r.values))
	for name, value := range r.values {
		data[name] = value
	}

	return data
}

// Set assigns a single attribute.
func (r *Record) Set(name string, value interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.values == nil {
		r.values = make(map[string]interface{})
	}

	r.values[attributeName(name)] = value
}

// Get returns an attribute or nil if it is not set.
func (r *Record) Get(name string) interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.values[attributeName(name)]
}

// Has reports whether the record carries the attribute, even with a nil value.
func (r *Record) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.values[attributeName(name)]

	return ok
}

// GetOrDefault returns an attribute, or def when it is unset or nil.
func (r *Record) GetOrDefault(name string, def interface{}) interface{} {
	if value := r.Get(name); value != nil {
		return value
	}

	return def
}

// GetBoolean coerces an attribute to a boolean. Only the literal true and the
// case-insensitive string "true" are true. ok is false when the attribute is
// unset or nil.
func (r *Record) GetBoolean(name string) (value bool, ok bool) {
	switch v := r.Get(name).(type) {
	case nil:
		return false, false
	case bool:
		return v, true
	case string:
		return strings.EqualFold(v, "true"), true
	case []byte:
		return strings.EqualFold(string(v), "true"), true
	default:
		return false, true
	}
}

// GetBooleanOrDefault works like GetBoolean but falls back to def for unset
// attributes. def must be a bool, anything else fails with ErrDefaultNotBoolean.
func (r *Record) GetBooleanOrDefault(name string, def interface{}) (bool, error) {
	fallback, isBool := def.(bool)
	if !isBool {
		return false, ErrDefaultNotBoolean
	}

	if value, ok := r.GetBoolean(name); ok {
		return value, nil
	}

	return fallback, nil
}

// Decode copies the attributes into a typed domain struct such as models.Bot.
// Attributes without a matching field land in the struct's ",remain" map.
func (r *Record) Decode(dst interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           dst,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}

	return decoder.Decode(r.GetData())
}

// Encode assigns every set field of a typed domain struct to the record.
// Nil pointer fields are left untouched.
func (r *Record) Encode(src interface{}) error {
	var data map[string]interface{}

	if err := mapstructure.Decode(src, &data); err != nil {
		return err
	}

	for name, value := range data {
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Ptr {
			continue
		}

		if rv.IsNil() {
			delete(data, name)
			continue
		}

		data[name] = rv.Elem().Interface()
	}

	r.SetData(data, false)

	return nil
}

// setIfMissing assigns value unless the attribute already exists.
func (r *Record) setIfMissing(name string, value interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.values == nil {
		r.values = make(map[string]interface{})
	}

	name = attributeName(name)
	if _, ok := r.values[name]; !ok {
		r.values[name] = value
	}
}
