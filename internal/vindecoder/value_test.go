package vindecoder

import (
	"encoding/json"
	"testing"
)

func decodeValue(t *testing.T, raw string) Value {
	t.Helper()
	var v Value
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("unmarshal %s: %v", raw, err)
	}
	return v
}

func TestValue_String(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"string", `"Ford"`, "Ford"},
		{"integral number drops decimal", `2011.0`, "2011"},
		{"integer", `1997`, "1997"},
		{"fractional number", `1.6`, "1.6"},
		{"bool true", `true`, "true"},
		{"bool false", `false`, "false"},
		{"list joins with comma-space", `["ABS", "ESP"]`, "ABS, ESP"},
		{"mixed list", `["Euro", 5]`, "Euro, 5"},
		{"empty list", `[]`, ""},
		{"null is empty", `null`, ""},
		{"object is empty", `{"nested": 1}`, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := decodeValue(t, tc.raw).String()
			if got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestValue_RejectsGarbage(t *testing.T) {
	var v Value
	if err := json.Unmarshal([]byte(`not-json`), &v); err == nil {
		t.Error("expected error for malformed value")
	}
}
