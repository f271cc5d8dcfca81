package telemetry

import (
	"encoding/json"
	"testing"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"3.7", 3.7, false},
		{"3700/1000", 3.7, false},
		{"-122.0", -122.0, false},
		{" 10 / 4 ", 2.5, false},
		{"0.123224", 0.123224, false},
		{"3700/0", 0, true},
		{"x/1000", 0, true},
		{"3700/y", 0, true},
		{"not-a-number", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseNumber(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseNumber(%q): expected error, got %v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseNumber(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// Both encodings of the same quantity must normalize to the same float.
func TestNumberFractionRoundTrip(t *testing.T) {
	var fromFraction, fromFloat Number
	if err := json.Unmarshal([]byte(`"3700/1000"`), &fromFraction); err != nil {
		t.Fatalf("unmarshaling fraction: %v", err)
	}
	if err := json.Unmarshal([]byte(`3.7`), &fromFloat); err != nil {
		t.Fatalf("unmarshaling float: %v", err)
	}

	if fromFraction != fromFloat {
		t.Errorf("fraction parsed to %v, float parsed to %v", fromFraction, fromFloat)
	}
	if fromFraction != 3.7 {
		t.Errorf("expected 3.7, got %v", fromFraction)
	}
}

func TestNumberUnmarshalForms(t *testing.T) {
	var doc struct {
		A Number `json:"a"`
		B Number `json:"b"`
		C Number `json:"c"`
	}

	raw := `{"a": 37.5, "b": "37.5", "c": "75/2"}`
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("unmarshaling: %v", err)
	}

	for name, got := range map[string]Number{"a": doc.A, "b": doc.B, "c": doc.C} {
		if got != 37.5 {
			t.Errorf("field %s = %v, want 37.5", name, got)
		}
	}
}

func TestNumberUnmarshalMalformed(t *testing.T) {
	var n Number
	if err := json.Unmarshal([]byte(`"12/"`), &n); err == nil {
		t.Error("expected error for malformed fraction")
	}
	if err := json.Unmarshal([]byte(`{}`), &n); err == nil {
		t.Error("expected error for object value")
	}
}

func TestNumberFloatDefault(t *testing.T) {
	var n *Number
	if got := n.Float(3.7); got != 3.7 {
		t.Errorf("nil Number.Float = %v, want default 3.7", got)
	}

	v := Number(12.5)
	if got := (&v).Float(3.7); got != 12.5 {
		t.Errorf("Number.Float = %v, want 12.5", got)
	}
}
