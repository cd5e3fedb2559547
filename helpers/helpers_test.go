package helpers

import (
	"strings"
	"testing"
)

func TestTempPassword(t *testing.T) {
	pw, err := TempPassword(12)
	if err != nil {
		t.Fatalf("TempPassword: %v", err)
	}
	if len(pw) != 12 {
		t.Fatalf("length = %d, want 12", len(pw))
	}
	for _, r := range pw {
		if !strings.ContainsRune(tempPasswordAlphabet, r) {
			t.Fatalf("character %q outside the password alphabet", r)
		}
	}
}

func TestParseStringToInt(t *testing.T) {
	n, err := ParseStringToInt("42")
	if err != nil {
		t.Fatalf("ParseStringToInt: %v", err)
	}
	if n != 42 {
		t.Fatalf("got %d, want 42", n)
	}
	if _, err := ParseStringToInt("4x2"); err == nil {
		t.Fatal("expected an error for a non-numeric string")
	}
}
