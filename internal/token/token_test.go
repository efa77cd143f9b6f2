package token

import (
	"net/url"
	"testing"
)

func TestNew_Length(t *testing.T) {
	tok := New()
	// 24 bytes -> 32 chars of unpadded base64url.
	if len(tok) != 32 {
		t.Errorf("New() length = %d, want 32", len(tok))
	}
}

func TestNew_URLSafe(t *testing.T) {
	for i := 0; i < 100; i++ {
		tok := New()
		if escaped := url.PathEscape(tok); escaped != tok {
			t.Fatalf("New() = %q requires percent-encoding (%q)", tok, escaped)
		}
	}
}

func TestNew_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 10000; i++ {
		tok := New()
		if seen[tok] {
			t.Fatalf("New() produced duplicate token %q", tok)
		}
		seen[tok] = true
	}
}
