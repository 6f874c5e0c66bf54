package errors

import (
	"strings"
	"testing"
)

func TestValidateSourceURI(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative path", "data/artists.csv", false},
		{"absolute path", "/srv/data/fuzzy.csv", false},
		{"s3 uri", "s3://exhibitions/1910/artists.csv", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 2000), true},
		{"control char", "data/\x01artists.csv", true},
		{"s3 no key", "s3://bucket", true},
		{"s3 empty key", "s3://bucket/", true},
		{"s3 no bucket", "s3:///key.csv", true},
		{"http", "https://example.com/artists.csv", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSourceURI(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSourceURI(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidSource) {
				t.Errorf("ValidateSourceURI(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateYear(t *testing.T) {
	tests := []struct {
		year    int
		wantErr bool
	}{
		{0, false},
		{1912, false},
		{MinYear, false},
		{MaxYear, false},
		{999, true},
		{10000, true},
		{-1912, true},
	}

	for _, tt := range tests {
		err := ValidateYear(tt.year)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateYear(%d) error = %v, wantErr %v", tt.year, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidYear) {
			t.Errorf("ValidateYear(%d) returned wrong error code: %v", tt.year, err)
		}
	}
}

func TestValidateFormat(t *testing.T) {
	supported := []string{"json", "svg"}
	if err := ValidateFormat("svg", supported); err != nil {
		t.Errorf("ValidateFormat(svg) = %v", err)
	}
	for _, f := range []string{"", "pdf", "SVG"} {
		err := ValidateFormat(f, supported)
		if !Is(err, ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) = %v, want INVALID_FORMAT", f, err)
		}
	}
}
