package domain

import "testing"

func TestFingerprintDeterministic(t *testing.T) {
	a := PricingContext{CustomerID: "u1", Instance: "main", Currency: "USD", Locale: "en"}
	b := PricingContext{CustomerID: "u1", Instance: "main", Currency: "USD", Locale: "en"}
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("identical contexts produced different fingerprints")
	}
}

func TestFingerprintChangesPerAttribute(t *testing.T) {
	base := PricingContext{CustomerID: "u1", Instance: "main", Currency: "USD", Locale: "en"}

	variants := map[string]PricingContext{
		"customer": {CustomerID: "u2", Instance: "main", Currency: "USD", Locale: "en"},
		"instance": {CustomerID: "u1", Instance: "wishlist", Currency: "USD", Locale: "en"},
		"currency": {CustomerID: "u1", Instance: "main", Currency: "EUR", Locale: "en"},
		"locale":   {CustomerID: "u1", Instance: "main", Currency: "USD", Locale: "de"},
	}
	for name, v := range variants {
		if v.Fingerprint() == base.Fingerprint() {
			t.Fatalf("changing %s did not change the fingerprint", name)
		}
	}
}

func TestFingerprintAttributeShiftDoesNotCollide(t *testing.T) {
	// The digest separates attributes, so moving characters between
	// adjacent fields must not produce the same fingerprint.
	a := PricingContext{CustomerID: "ab", Instance: "c"}
	b := PricingContext{CustomerID: "a", Instance: "bc"}
	if a.Fingerprint() == b.Fingerprint() {
		t.Fatalf("attribute boundary shift collided")
	}
}

func TestNewPricingContextValidatesCurrency(t *testing.T) {
	if _, err := NewPricingContext("", "main", "USD", "en"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := NewPricingContext("", "main", "NOPE", "en"); err == nil {
		t.Fatalf("expected invalid currency error")
	}
}
