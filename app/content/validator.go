package content

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// MaxDurationSeconds caps durations at one day.
	MaxDurationSeconds = 86400

	// MinPublishedAt is 2000-01-01T00:00:00Z in epoch milliseconds.
	MinPublishedAt = int64(946684800000)
	// MaxPublishedAt is 2100-01-01T00:00:00Z in epoch milliseconds.
	MaxPublishedAt = int64(4102444800000)
)

// FieldError describes a single invariant violation on an item field.
type FieldError struct {
	Field   string
	Value   interface{}
	Message string
}

// ValidationError is raised when a candidate item violates one or more
// invariants. Field, Value and Message describe the first violation in
// check order; Errors carries the full list for diagnostics.
type ValidationError struct {
	Field      string
	Value      interface{}
	Message    string
	ProviderID string
	Errors     []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) > 1 {
		return fmt.Sprintf("invalid item (provider_id=%s): %s (%d violations total)",
			e.ProviderID, e.Message, len(e.Errors))
	}
	return fmt.Sprintf("invalid item (provider_id=%s): %s", e.ProviderID, e.Message)
}

// Validate checks a candidate item against all domain invariants. It is
// the final gate before persistence: pure, synchronous, and side-effect
// free. All violations are collected before failing; on success the
// item is returned to the caller unchanged (no coercion happens here).
func Validate(item Item) error {
	var errs []FieldError

	required := []struct {
		field string
		value string
	}{
		{"id", item.ID},
		{"providerId", item.ProviderID},
		{"title", item.Title},
		{"creator", item.Creator},
		{"canonicalUrl", item.CanonicalURL},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, FieldError{
				Field:   r.field,
				Value:   r.value,
				Message: fmt.Sprintf("%s is required and must be non-empty", r.field),
			})
		}
	}

	if item.CanonicalURL != "" && !isHTTPURL(item.CanonicalURL) {
		errs = append(errs, FieldError{
			Field:   "canonicalUrl",
			Value:   item.CanonicalURL,
			Message: fmt.Sprintf("canonicalUrl is not a valid http(s) URL: %q", item.CanonicalURL),
		})
	}
	if item.ImageURL != "" && !isHTTPURL(item.ImageURL) {
		errs = append(errs, FieldError{
			Field:   "imageUrl",
			Value:   item.ImageURL,
			Message: fmt.Sprintf("imageUrl is not a valid http(s) URL: %q", item.ImageURL),
		})
	}
	if item.CreatorImageURL != "" && !isHTTPURL(item.CreatorImageURL) {
		errs = append(errs, FieldError{
			Field:   "creatorImageUrl",
			Value:   item.CreatorImageURL,
			Message: fmt.Sprintf("creatorImageUrl is not a valid http(s) URL: %q", item.CreatorImageURL),
		})
	}

	if item.DurationSeconds != nil {
		d := *item.DurationSeconds
		if d < 0 {
			errs = append(errs, FieldError{
				Field:   "durationSeconds",
				Value:   d,
				Message: fmt.Sprintf("durationSeconds is negative: %d", d),
			})
		} else if d > MaxDurationSeconds {
			errs = append(errs, FieldError{
				Field:   "durationSeconds",
				Value:   d,
				Message: fmt.Sprintf("durationSeconds exceeds 24 hours: %d", d),
			})
		}
	}

	if item.PublishedAt != nil {
		ts := *item.PublishedAt
		if ts < MinPublishedAt {
			errs = append(errs, FieldError{
				Field:   "publishedAt",
				Value:   ts,
				Message: fmt.Sprintf("publishedAt is too far in the past: %d", ts),
			})
		} else if ts > MaxPublishedAt {
			errs = append(errs, FieldError{
				Field:   "publishedAt",
				Value:   ts,
				Message: fmt.Sprintf("publishedAt is too far in the future: %d", ts),
			})
		}
	}

	if !item.Provider.IsValid() {
		errs = append(errs, FieldError{
			Field:   "provider",
			Value:   string(item.Provider),
			Message: fmt.Sprintf("provider is not a known provider: %q", string(item.Provider)),
		})
	}
	if !item.ContentType.IsValid() {
		errs = append(errs, FieldError{
			Field:   "contentType",
			Value:   string(item.ContentType),
			Message: fmt.Sprintf("contentType is not a known content type: %q", string(item.ContentType)),
		})
	}

	if len(errs) == 0 {
		return nil
	}

	return &ValidationError{
		Field:      errs[0].Field,
		Value:      errs[0].Value,
		Message:    errs[0].Message,
		ProviderID: item.ProviderID,
		Errors:     errs,
	}
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
