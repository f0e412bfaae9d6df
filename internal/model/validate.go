package model

import (
	"slices"
	"sort"
	"strings"
	"time"
)

// DateLayout is the layout of Item.Date.
const DateLayout = "2006-01-02"

// MinDescriptionLength is the shortest description accepted for a listing.
const MinDescriptionLength = 10

// FieldErrors maps a JSON field name to a human readable problem.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return "invalid listing: " + strings.Join(parts, "; ")
}

// Normalize trims surrounding whitespace from the free-text fields.
func (f ItemFields) Normalize() ItemFields {
	f.Title = strings.TrimSpace(f.Title)
	f.Category = strings.TrimSpace(f.Category)
	f.Description = strings.TrimSpace(f.Description)
	f.Date = strings.TrimSpace(f.Date)
	f.Location = strings.TrimSpace(f.Location)
	f.Contact = strings.TrimSpace(f.Contact)
	f.Image = strings.TrimSpace(f.Image)
	return f
}

// ValidateFields checks a listing the way the post form does. The store itself
// accepts anything; callers validate before creating or updating. An empty
// categories list disables the category check.
func ValidateFields(f ItemFields, categories []string) error {
	errs := FieldErrors{}

	if !f.Type.Valid() {
		errs["type"] = "must be lost or found"
	}
	if f.Title == "" {
		errs["title"] = "title is required"
	}
	switch {
	case f.Description == "":
		errs["description"] = "description is required"
	case len([]rune(f.Description)) < MinDescriptionLength:
		errs["description"] = "description must be at least 10 characters"
	}
	if f.Location == "" {
		errs["location"] = "location is required"
	}
	if f.Contact == "" {
		errs["contact"] = "contact information is required"
	}
	if f.Image == "" {
		errs["image"] = "please upload an image"
	}
	if _, err := time.Parse(DateLayout, f.Date); err != nil {
		errs["date"] = "date must be YYYY-MM-DD"
	}
	if len(categories) > 0 && !slices.Contains(categories, f.Category) {
		errs["category"] = "unknown category"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
