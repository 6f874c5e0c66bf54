package errors

import (
	"slices"
	"strings"
	"unicode"
)

// Year bounds accepted for a selection.
const (
	MinYear = 1000
	MaxYear = 9999
)

// ValidateSourceURI validates a table location. Accepted forms are a local
// path and s3://bucket/key.
//
// The rules are intentionally conservative:
//   - No empty locations
//   - No control characters or null bytes
//   - S3 URIs must name both a bucket and a key
//   - Maximum length of 1024 characters
func ValidateSourceURI(uri string) error {
	if uri == "" {
		return New(ErrCodeInvalidSource, "source cannot be empty")
	}

	const maxURILength = 1024
	if len(uri) > maxURILength {
		return New(ErrCodeInvalidSource, "source too long (max %d characters)", maxURILength)
	}

	for _, r := range uri {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSource, "source contains invalid control characters")
		}
	}

	if rest, ok := strings.CutPrefix(uri, "s3://"); ok {
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" || key == "" {
			return New(ErrCodeInvalidSource, "s3 source must have the form s3://bucket/key: %q", uri)
		}
		return nil
	}

	if strings.Contains(uri, "://") {
		return New(ErrCodeInvalidSource, "unsupported source scheme: %q", uri)
	}
	return nil
}

// ValidateYear validates a selected year. Zero means "unset" and is accepted;
// the layout then reports no data.
func ValidateYear(year int) error {
	if year == 0 {
		return nil
	}
	if year < MinYear || year > MaxYear {
		return New(ErrCodeInvalidYear, "year %d out of range [%d, %d]", year, MinYear, MaxYear)
	}
	return nil
}

// ValidateFormat validates an output format against the supported set.
func ValidateFormat(format string, supported []string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if !slices.Contains(supported, format) {
		return New(ErrCodeInvalidFormat, "unsupported format %q (must be one of: %s)", format, strings.Join(supported, ", "))
	}
	return nil
}
