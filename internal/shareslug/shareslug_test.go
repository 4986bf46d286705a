package shareslug

import (
	"strings"
	"testing"
)

func TestMint_Length(t *testing.T) {
	slug, err := Mint()
	if err != nil {
		t.Fatalf("Mint() error: %v", err)
	}
	if len(slug.Value()) != Length {
		t.Errorf("Mint() length = %d, want %d (slug=%q)", len(slug.Value()), Length, slug.Value())
	}
}

func TestMint_Charset(t *testing.T) {
	for i := 0; i < 50; i++ {
		slug, err := Mint()
		if err != nil {
			t.Fatalf("Mint() error: %v", err)
		}
		for _, r := range slug.Value() {
			if !strings.ContainsRune(Alphabet, r) {
				t.Fatalf("Mint() produced character %q outside alphabet", r)
			}
		}
	}
}

func TestMint_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		slug, err := Mint()
		if err != nil {
			t.Fatalf("Mint() error: %v", err)
		}
		if _, dup := seen[slug.Value()]; dup {
			t.Fatalf("Mint() produced duplicate slug %q", slug.Value())
		}
		seen[slug.Value()] = struct{}{}
	}
}

func TestParse(t *testing.T) {
	minted, err := Mint()
	if err != nil {
		t.Fatalf("Mint() error: %v", err)
	}

	parsed, err := Parse(minted.Value())
	if err != nil {
		t.Fatalf("Parse(minted) error: %v", err)
	}
	if parsed.Value() != minted.Value() {
		t.Errorf("Parse round trip = %q, want %q", parsed.Value(), minted.Value())
	}

	for _, raw := range []string{"", "short", "has spaces ok", "aB3xY9QkLm2f!", strings.Repeat("a", Length+1)} {
		if _, err := Parse(raw); err == nil {
			t.Errorf("Parse(%q) expected error", raw)
		}
	}
}

func TestString_Masked(t *testing.T) {
	slug := FromStored("aB3xY9QkLm2f")
	if slug.String() == slug.Value() {
		t.Fatal("String() must not expose the raw token")
	}
	if !strings.HasPrefix(slug.String(), "aB3x") {
		t.Errorf("String() = %q, want masked form keeping a short prefix", slug.String())
	}
}
