package kvstore

import (
	"encoding/json"
	"regexp"
	"time"
)

// isoDatePrefix matches strings that look like serialized timestamps. Only
// candidates matching this are handed to the RFC 3339 parser.
var isoDatePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T`)

// Revive walks a generically decoded JSON value and converts every string
// that parses as an RFC 3339 timestamp into a time.Time. Typed decodes get
// this for free from encoding/json; Revive covers the untyped path so date
// fields always come back as instants, never strings.
func Revive(v any) any {
	switch val := v.(type) {
	case string:
		if isoDatePrefix.MatchString(val) {
			if t, err := time.Parse(time.RFC3339, val); err == nil {
				return t
			}
		}
		return val
	case map[string]any:
		for k, item := range val {
			val[k] = Revive(item)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = Revive(item)
		}
		return val
	default:
		return v
	}
}

// GetAny decodes the value under key generically with date revival applied.
func GetAny(s Store, key string) (any, bool, error) {
	raw, ok, err := s.GetRaw(key)
	if err != nil || !ok {
		return nil, ok, err
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, true, storageErr("unmarshal "+key, err)
	}
	return Revive(v), true, nil
}
