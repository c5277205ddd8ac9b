package discovery

import (
	"testing"
)

func TestNormalizeOrigin(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"https://example.com", "https://example.com"},
		{"https://Example.COM/path/to/page?q=1#frag", "https://example.com"},
		{"http://example.com:8080/blog", "http://example.com:8080"},
		{"example.com", "https://example.com"},
		{"  https://example.com/  ", "https://example.com"},
	}

	for _, tt := range tests {
		got, err := NormalizeOrigin(tt.raw)
		if err != nil {
			t.Errorf("NormalizeOrigin(%q) error = %v", tt.raw, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("NormalizeOrigin(%q) = %q, expected %q", tt.raw, got, tt.expected)
		}
	}
}

func TestNormalizeOriginRejectsInvalid(t *testing.T) {
	for _, raw := range []string{"", "   ", "ftp://example.com", "https://"} {
		if _, err := NormalizeOrigin(raw); err == nil {
			t.Errorf("Expected error for %q", raw)
		}
	}
}

func TestOriginHashDeterminism(t *testing.T) {
	a := OriginHash("https://example.com")
	b := OriginHash("https://example.com")
	if a != b {
		t.Error("Expected identical origins to hash identically")
	}
	if len(a) != 64 {
		t.Errorf("Expected 64 hex characters, got %d", len(a))
	}
	if OriginHash("https://other.com") == a {
		t.Error("Expected different origins to hash differently")
	}
}
