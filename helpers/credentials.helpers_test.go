package helpers

import "testing"

func TestGenerateSaltLength(t *testing.T) {
	salt, err := GenerateSalt(32)
	if err != nil {
		t.Fatalf("GenerateSalt: %v", err)
	}
	if len(salt) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(salt))
	}
}

func TestGenerateSaltUnique(t *testing.T) {
	a, _ := GenerateSalt(32)
	b, _ := GenerateSalt(32)
	if a == b {
		t.Fatal("two generated salts are identical")
	}
}

func TestGenerateHashDeterministic(t *testing.T) {
	first := GenerateHash("Abc123!x", "deadbeef")
	second := GenerateHash("Abc123!x", "deadbeef")
	if first != second {
		t.Fatal("equal inputs produced different hashes")
	}
}

func TestGenerateHashSaltSensitive(t *testing.T) {
	if GenerateHash("Abc123!x", "aa") == GenerateHash("Abc123!x", "bb") {
		t.Fatal("different salts produced the same hash")
	}
}

func TestGenerateHashPasswordSensitive(t *testing.T) {
	if GenerateHash("Abc123!x", "aa") == GenerateHash("Abc123!y", "aa") {
		t.Fatal("different passwords produced the same hash")
	}
}
