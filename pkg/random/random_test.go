package random

import "testing"

func TestStringLength(t *testing.T) {
	s, err := String(12)
	if err != nil {
		t.Fatalf("String returned error: %v", err)
	}
	if len(s) != 12 {
		t.Fatalf("expected 12 characters, got %d", len(s))
	}
}

func TestStringRejectsNonPositiveLength(t *testing.T) {
	if _, err := String(0); err == nil {
		t.Fatal("expected error for zero length")
	}
	if _, err := String(-3); err == nil {
		t.Fatal("expected error for negative length")
	}
}

func TestOrderIdentifiersDiffer(t *testing.T) {
	a, err := OrderIdentifier()
	if err != nil {
		t.Fatalf("OrderIdentifier returned error: %v", err)
	}
	b, err := OrderIdentifier()
	if err != nil {
		t.Fatalf("OrderIdentifier returned error: %v", err)
	}
	if a == b {
		t.Fatalf("expected distinct identifiers, both were %q", a)
	}
}
