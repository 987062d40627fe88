package lib

import "fmt"
import "sort"
import "strings"

// Settings map of configuration parameters. Keys are dotted names like
// "small.initial" or "log.level", values are bool, numbers or strings.
type Settings map[string]interface{}

// Section return parameters whose key starts with `prefix`.
func (setts Settings) Section(prefix string) Settings {
	section := make(Settings)
	for key, value := range setts {
		if strings.HasPrefix(key, prefix) {
			section[key] = value
		}
	}
	return section
}

// Trim `prefix` from every key.
func (setts Settings) Trim(prefix string) Settings {
	trimmed := make(Settings)
	for key, value := range setts {
		trimmed[strings.TrimPrefix(key, prefix)] = value
	}
	return trimmed
}

// Mixin override `setts` with each of `settings`, later ones win. Accepts
// Settings and map[string]interface{}, nil arguments are skipped.
func (setts Settings) Mixin(settings ...interface{}) Settings {
	for _, arg := range settings {
		var m map[string]interface{}
		switch cnf := arg.(type) {
		case Settings:
			m = cnf
		case map[string]interface{}:
			m = cnf
		}
		for key, value := range m {
			setts[key] = value
		}
	}
	return setts
}

// Keys return sorted list of parameter names.
func (setts Settings) Keys() []string {
	keys := make([]string, 0, len(setts))
	for key := range setts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Bool return the boolean value for key.
func (setts Settings) Bool(key string) bool {
	value := setts.lookup(key)
	val, ok := value.(bool)
	if !ok {
		panicerr("settings %q not a bool: %T", key, value)
	}
	return val
}

// Float64 return the float64 value for key.
func (setts Settings) Float64(key string) float64 {
	f, ok := tofloat64(setts.lookup(key))
	if !ok {
		panicerr("settings %q not a number: %T", key, setts[key])
	}
	return f
}

// Int64 return the int64 value for key.
func (setts Settings) Int64(key string) int64 {
	value := setts.lookup(key)
	switch val := value.(type) {
	case int64:
		return val
	case int:
		return int64(val)
	case uint64:
		return int64(val)
	}
	f, ok := tofloat64(value)
	if !ok {
		panicerr("settings %q not a number: %T", key, value)
	}
	return int64(f)
}

// Int return the int value for key.
func (setts Settings) Int(key string) int {
	return int(setts.Int64(key))
}

// String return the string value for key.
func (setts Settings) String(key string) string {
	value := setts.lookup(key)
	val, ok := value.(string)
	if !ok {
		panicerr("settings %q not a string: %T", key, value)
	}
	return val
}

func (setts Settings) lookup(key string) interface{} {
	value, ok := setts[key]
	if !ok {
		panicerr("missing settings %q", key)
	}
	return value
}

func tofloat64(value interface{}) (float64, bool) {
	switch val := value.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	}
	return 0, false
}

func panicerr(fmsg string, args ...interface{}) {
	panic(fmt.Errorf(fmsg, args...))
}
