package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFields() ItemFields {
	return ItemFields{
		Type:        ItemTypeLost,
		Title:       "Blue Backpack",
		Category:    "Bags",
		Description: "Navy backpack with a laptop inside",
		Date:        "2024-01-01",
		Location:    "Library, 2nd floor",
		Contact:     "jane@example.com",
		Image:       "/api/photos/abc",
	}
}

func TestItemTypeValid(t *testing.T) {
	assert.True(t, ItemTypeLost.Valid())
	assert.True(t, ItemTypeFound.Valid())
	assert.False(t, ItemType("all").Valid())
	assert.False(t, ItemType("").Valid())
}

func TestPatchApplyOnlySuppliedFields(t *testing.T) {
	item := Item{ID: "1", Type: ItemTypeLost, Title: "Old", Location: "Gym", Status: ItemStatusActive, UserID: "u1"}
	title := "New"

	got := ItemPatch{Title: &title}.Apply(item)

	assert.Equal(t, "New", got.Title)
	assert.Equal(t, "Gym", got.Location)
	assert.Equal(t, "1", got.ID)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "Old", item.Title, "input item must not change")
}

func TestPatchStatusNeverReactivates(t *testing.T) {
	active := ItemStatusActive
	claimed := ItemStatusClaimed

	item := Item{Status: ItemStatusClaimed}
	assert.Equal(t, ItemStatusClaimed, ItemPatch{Status: &active}.Apply(item).Status)

	item = Item{Status: ItemStatusActive}
	assert.Equal(t, ItemStatusClaimed, ItemPatch{Status: &claimed}.Apply(item).Status)

	bogus := ItemStatus("archived")
	assert.Equal(t, ItemStatusActive, ItemPatch{Status: &bogus}.Apply(item).Status)
}

func TestPatchEmpty(t *testing.T) {
	assert.True(t, ItemPatch{}.Empty())
	s := ""
	assert.False(t, ItemPatch{Contact: &s}.Empty())
}

func TestValidateFields(t *testing.T) {
	categories := []string{"Bags", "Keys"}

	require.NoError(t, ValidateFields(validFields(), categories))
	require.NoError(t, ValidateFields(validFields(), nil))

	tests := []struct {
		field  string
		mutate func(*ItemFields)
	}{
		{"type", func(f *ItemFields) { f.Type = "all" }},
		{"title", func(f *ItemFields) { f.Title = "" }},
		{"description", func(f *ItemFields) { f.Description = "" }},
		{"description", func(f *ItemFields) { f.Description = "too short" }},
		{"location", func(f *ItemFields) { f.Location = "" }},
		{"contact", func(f *ItemFields) { f.Contact = "" }},
		{"image", func(f *ItemFields) { f.Image = "" }},
		{"date", func(f *ItemFields) { f.Date = "01/02/2024" }},
		{"category", func(f *ItemFields) { f.Category = "Pets" }},
	}

	for _, tt := range tests {
		f := validFields()
		tt.mutate(&f)

		err := ValidateFields(f, categories)
		var fe FieldErrors
		require.True(t, errors.As(err, &fe), "field %s: expected FieldErrors, got %v", tt.field, err)
		assert.Contains(t, fe, tt.field)
	}
}

func TestNormalizeTrims(t *testing.T) {
	f := validFields()
	f.Title = "  Keys  "
	f.Description = "\tSet of three keys on a ring\n"

	got := f.Normalize()
	assert.Equal(t, "Keys", got.Title)
	assert.Equal(t, "Set of three keys on a ring", got.Description)
}

func TestFieldErrorsMessageIsSorted(t *testing.T) {
	err := FieldErrors{"title": "title is required", "contact": "contact information is required"}
	assert.Equal(t, "invalid listing: contact: contact information is required; title: title is required", err.Error())
}
