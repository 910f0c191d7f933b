package entities

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// FlexInt decodes a JSON number or numeric string. Anything else, including
// non-numeric strings, decodes as 0.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	*f = 0
	data = bytes.TrimSpace(data)

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var v float64
	switch t := raw.(type) {
	case float64:
		v = t
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil
		}
		v = parsed
	default:
		return nil
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	*f = FlexInt(math.Trunc(v))
	return nil
}

// FlexDecimal decodes a JSON number or string into a decimal string
type FlexDecimal string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexDecimal) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case float64:
		*f = FlexDecimal(strconv.FormatFloat(t, 'f', -1, 64))
	case string:
		*f = FlexDecimal(strings.TrimSpace(t))
	default:
		*f = ""
	}
	return nil
}

// FlexStrings decodes either a single JSON string or a list of strings
type FlexStrings []string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexStrings) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = nil
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*f = FlexStrings{single}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*f = list
	return nil
}

// normalizeFacilities trims and de-duplicates tags; an empty result is nil
func normalizeFacilities(in []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(in))
	for _, tag := range in {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
