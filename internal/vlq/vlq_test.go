package vlq

import (
	"testing"
)

func TestEncodeKnownValues(t *testing.T) {
	tests := []struct {
		in   []int
		want string
	}{
		{[]int{0}, "A"},
		{[]int{1}, "C"},
		{[]int{-1}, "D"},
		{[]int{15}, "e"},
		{[]int{16}, "gB"},
		{[]int{0, 0, 0, 0}, "AAAA"},
		{[]int{4, 0, 2, 6}, "IAEM"},
		{[]int{-17}, "jB"},
		{[]int{1000}, "w+B"},
	}
	for _, tt := range tests {
		if got := Encode(tt.in...); got != tt.want {
			t.Errorf("Encode(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	values := []int{0, 1, -1, 31, -32, 1 << 20, -(1 << 20), 123456789}
	got, err := Decode(Encode(values...))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) != len(values) {
		t.Fatalf("got %d values, want %d", len(got), len(values))
	}
	for i := range values {
		if got[i] != values[i] {
			t.Errorf("value %d: got %d, want %d", i, got[i], values[i])
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := Decode("g"); err != ErrTruncated {
		t.Errorf("expected ErrTruncated, got %v", err)
	}
	if _, err := Decode("A*"); err == nil {
		t.Error("expected error for invalid character")
	}
}
