package vindecoder

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type valueKind int

const (
	kindAbsent valueKind = iota
	kindString
	kindNumber
	kindBool
	kindList
)

// Value is the tagged variant behind the decode payload's "value" field.
// The remote service mixes strings, numbers, booleans, lists and nulls in
// the same position; every variant stringifies to the exact text the
// vehicle record stores.
type Value struct {
	kind valueKind
	str  string
	num  float64
	b    bool
	list []Value
}

func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*v = Value{kind: kindAbsent}
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value{kind: kindString, str: s}
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Value{kind: kindBool, b: b}
	case '[':
		var list []Value
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*v = Value{kind: kindList, list: list}
	case '{':
		// Objects never carry a displayable value; treat as absent.
		*v = Value{kind: kindAbsent}
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("decode value: %w", err)
		}
		*v = Value{kind: kindNumber, num: n}
	}
	return nil
}

// String renders the variant the way the vehicle record stores it:
// integral numbers drop the decimal point, lists join with ", ",
// booleans use their literal word, absent values are empty.
func (v Value) String() string {
	switch v.kind {
	case kindString:
		return v.str
	case kindNumber:
		if v.num == math.Trunc(v.num) && !math.IsInf(v.num, 0) {
			return strconv.FormatInt(int64(v.num), 10)
		}
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case kindBool:
		return strconv.FormatBool(v.b)
	case kindList:
		parts := make([]string, len(v.list))
		for i, item := range v.list {
			parts[i] = item.String()
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}
