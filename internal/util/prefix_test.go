package util

import "testing"

func TestHashPrefixHexFixedWidth(t *testing.T) {
	keys := []string{"", "a", "creator.example", "youtube#channel:UC123", "twitch#author:someone"}
	for _, k := range keys {
		p := HashPrefixHex(k, 2)
		if len(p) != 4 {
			t.Fatalf("prefix width for %q: got %d want 4", k, len(p))
		}
	}
}

func TestHashPrefixHexDeterministic(t *testing.T) {
	a := HashPrefixHex("example.org", 2)
	b := HashPrefixHex("example.org", 2)
	if a != b {
		t.Fatalf("prefix not deterministic: %q vs %q", a, b)
	}
	// sha256("example.org") starts with bfabc374, so the 2-byte prefix is "bfab".
	if a != "bfab" {
		t.Fatalf("unexpected prefix: %q", a)
	}
}

func TestHashPrefixHexClampsToDigestSize(t *testing.T) {
	p := HashPrefixHex("k", 100)
	if len(p) != 64 {
		t.Fatalf("expected full digest width 64, got %d", len(p))
	}
}
