// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"errors"
	"testing"
)

func TestParseIdentifier(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		legacy bool
	}{
		// Modern IDs.
		{"bare id", "2310.06825", "2310.06825", false},
		{"bare id with version", "2310.06825v1", "2310.06825v1", false},
		{"five digit suffix", "1234.56789", "1234.56789", false},
		{"arXiv prefix", "arXiv:2310.06825", "2310.06825", false},
		{"surrounding whitespace", "  2310.06825  ", "2310.06825", false},

		// URLs.
		{"abs URL", "https://arxiv.org/abs/2310.06825", "2310.06825", false},
		{"abs URL with version", "http://arxiv.org/abs/2310.06825v2", "2310.06825v2", false},
		{"pdf URL", "https://arxiv.org/pdf/1234.56789.pdf", "1234.56789", false},
		{"pdf URL with version", "http://arxiv.org/pdf/1234.56789v3.pdf", "1234.56789v3", false},

		// Legacy IDs.
		{"legacy hep-th", "hep-th/0101001", "hep-th/0101001", true},
		{"legacy with subject class", "math.GT/0309136", "math.GT/0309136", true},
		{"legacy cs.AI", "cs.AI/0101001", "cs.AI/0101001", true},
		{"legacy abs URL", "https://arxiv.org/abs/hep-th/0101001", "hep-th/0101001", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIdentifier(tt.input)
			if err != nil {
				t.Fatalf("ParseIdentifier(%q) error = %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseIdentifier(%q) = %q, want %q", tt.input, got.String(), tt.want)
			}
			if got.Legacy() != tt.legacy {
				t.Errorf("ParseIdentifier(%q).Legacy() = %v, want %v", tt.input, got.Legacy(), tt.legacy)
			}
		})
	}
}

func TestParseIdentifierInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"free text", "not an id"},
		{"wrong host", "https://example.com/abs/2310.06825"},
		{"missing scheme", "arxiv.org/abs/2310.06825"},
		{"too few digits", "123.456"},
		{"legacy with six digits", "cs.AI/123456"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseIdentifier(tt.input)
			if err == nil {
				t.Fatalf("ParseIdentifier(%q) succeeded, want error", tt.input)
			}
			var idErr *IdentifierError
			if !errors.As(err, &idErr) {
				t.Fatalf("ParseIdentifier(%q) error type = %T, want *IdentifierError", tt.input, err)
			}
		})
	}
}

// A URL and its bare ID normalize to the same identifier.
func TestParseIdentifierNormalizesURL(t *testing.T) {
	fromURL, err := ParseIdentifier("https://arxiv.org/abs/2310.06825")
	if err != nil {
		t.Fatal(err)
	}
	fromID, err := ParseIdentifier("2310.06825")
	if err != nil {
		t.Fatal(err)
	}
	if fromURL != fromID {
		t.Errorf("URL parse %+v differs from bare ID parse %+v", fromURL, fromID)
	}
}

func TestIdentifierURLs(t *testing.T) {
	id, err := ParseIdentifier("2310.06825")
	if err != nil {
		t.Fatal(err)
	}
	if got := id.AbsURL(); got != "https://arxiv.org/abs/2310.06825" {
		t.Errorf("AbsURL() = %q", got)
	}
	if got := id.PDFURL(); got != "https://arxiv.org/pdf/2310.06825" {
		t.Errorf("PDFURL() = %q", got)
	}
}
