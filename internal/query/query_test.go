package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/erazemk/lostmate/internal/model"
)

func sample() []model.Item {
	return []model.Item{
		{ID: "1", Type: model.ItemTypeLost, Title: "Blue Backpack", Category: "Bags", Location: "Library", Description: "Navy", Date: "2024-01-01", Status: model.ItemStatusActive},
		{ID: "2", Type: model.ItemTypeFound, Title: "Keys", Category: "Keys", Location: "Gym", Description: "Ring of three", Date: "2024-01-05", Status: model.ItemStatusActive},
		{ID: "3", Type: model.ItemTypeFound, Title: "Umbrella", Category: "Other", Location: "Blue Hall", Description: "Black", Date: "2024-01-03", Status: model.ItemStatusClaimed},
		{ID: "4", Type: model.ItemTypeLost, Title: "Scarf", Category: "Clothing", Location: "Cafe", Description: "Light BLUE wool", Date: "2024-01-03", Status: model.ItemStatusActive},
	}
}

func ids(items []model.Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"zero value", Filter{}, []string{"2", "3", "4", "1"}},
		{"all", Filter{Type: TypeAll}, []string{"2", "3", "4", "1"}},
		{"lost", Filter{Type: "lost"}, []string{"4", "1"}},
		{"found", Filter{Type: "found"}, []string{"2", "3"}},
		{"text in title", Filter{Text: "backpack"}, []string{"1"}},
		{"text any field", Filter{Text: "blue"}, []string{"3", "4", "1"}},
		{"text and type", Filter{Type: "lost", Text: "blue"}, []string{"4", "1"}},
		{"text in category", Filter{Text: "CLOTH"}, []string{"4"}},
		{"whitespace only", Filter{Text: "   "}, []string{"2", "3", "4", "1"}},
		{"trimmed", Filter{Text: "  keys "}, []string{"2"}},
		{"no match", Filter{Text: "laptop"}, []string{}},
		{"unknown type", Filter{Type: "stolen"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Apply(sample(), tt.filter)))
		})
	}
}

func TestApplyExampleScenario(t *testing.T) {
	items := sample()[:2]
	assert.Equal(t, []string{"1"}, ids(Apply(items, Filter{Type: TypeAll, Text: "blue"})))
}

func TestApplyKeepsInputOrder(t *testing.T) {
	items := sample()
	Apply(items, Filter{})
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(items))
}

func TestSortByDateIsStable(t *testing.T) {
	items := []model.Item{
		{ID: "a", Date: "2024-01-01"},
		{ID: "b", Date: "2024-01-02"},
		{ID: "c", Date: "2024-01-01"},
		{ID: "d", Date: "2024-01-02"},
	}
	SortByDate(items)
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids(items))
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, Summary{Total: 4, Active: 3, Claimed: 1}, Summarize(sample()))
	assert.Equal(t, Summary{}, Summarize(nil))
}
