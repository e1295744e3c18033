package eval

import "testing"

func TestNewValue(t *testing.T) {
	v := NewValue(42)
	if v.Raw() != 42 {
		t.Errorf("Raw() = %v, want 42", v.Raw())
	}
	if v.String() != "42" {
		t.Errorf("String() = %q, want %q", v.String(), "42")
	}
}

func TestNewValue_CopiesThroughValue(t *testing.T) {
	src := Described(42, "the answer")
	v := NewValue(src)

	if v.Raw() != 42 {
		t.Errorf("Raw() = %v, want 42", v.Raw())
	}
	if v.String() != "the answer" {
		t.Errorf("String() = %q, want source description", v.String())
	}
}

func TestDescribed(t *testing.T) {
	tests := []struct {
		name string
		in   any
		desc string
		want string
	}{
		{"plain value with description", 3, "three", "three"},
		{"description overrides source's", Described(3, "three"), "drei", "drei"},
		{"empty description keeps source's", Described(3, "three"), "", "three"},
		{"empty description falls back to value", 3, "", "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Described(tt.in, tt.desc)
			if v.Raw() != 3 {
				t.Errorf("Raw() = %v, want 3", v.Raw())
			}
			if got := v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValue_StringFallback(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"int", 7, "7"},
		{"string", "abc", "abc"},
		{"float", 1.5, "1.5"},
		{"nil", nil, "<nil>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewValue(tt.in).String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
