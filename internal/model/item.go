package model

// Item is a single lost-or-found listing.
type Item struct {
	ID          string     `json:"id" yaml:"id"`
	Type        ItemType   `json:"type" yaml:"type"`
	Title       string     `json:"title" yaml:"title"`
	Category    string     `json:"category" yaml:"category"`
	Description string     `json:"description" yaml:"description"`
	Date        string     `json:"date" yaml:"date"`
	Location    string     `json:"location" yaml:"location"`
	Contact     string     `json:"contact" yaml:"contact"`
	Image       string     `json:"image" yaml:"image"`
	Status      ItemStatus `json:"status" yaml:"status"`
	UserID      string     `json:"userId" yaml:"userId"`
}

// ItemType says whether a listing reports a lost or a found item.
type ItemType string

// Item types.
const (
	ItemTypeLost  ItemType = "lost"
	ItemTypeFound ItemType = "found"
)

// Valid reports whether t is one of the known item types.
func (t ItemType) Valid() bool {
	return t == ItemTypeLost || t == ItemTypeFound
}

// ItemStatus is the lifecycle state of a listing. It only ever moves from
// active to claimed.
type ItemStatus string

// Item statuses.
const (
	ItemStatusActive  ItemStatus = "active"
	ItemStatusClaimed ItemStatus = "claimed"
)

// ItemFields holds everything a caller supplies when posting a listing. The
// store assigns ID, UserID and Status itself.
type ItemFields struct {
	Type        ItemType `json:"type"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Location    string   `json:"location"`
	Contact     string   `json:"contact"`
	Image       string   `json:"image"`
}

// ItemPatch is a partial update. Nil fields are left untouched. There is no
// way to express a change of ID, owner or type.
type ItemPatch struct {
	Title       *string     `json:"title,omitempty"`
	Category    *string     `json:"category,omitempty"`
	Description *string     `json:"description,omitempty"`
	Date        *string     `json:"date,omitempty"`
	Location    *string     `json:"location,omitempty"`
	Contact     *string     `json:"contact,omitempty"`
	Image       *string     `json:"image,omitempty"`
	Status      *ItemStatus `json:"status,omitempty"`
}

// Empty reports whether the patch carries no fields at all.
func (p ItemPatch) Empty() bool {
	return p.Title == nil && p.Category == nil && p.Description == nil &&
		p.Date == nil && p.Location == nil && p.Contact == nil &&
		p.Image == nil && p.Status == nil
}

// Apply returns a copy of item with the patch applied. A status in the patch
// is honoured only when it moves the item to claimed.
func (p ItemPatch) Apply(item Item) Item {
	if p.Title != nil {
		item.Title = *p.Title
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Date != nil {
		item.Date = *p.Date
	}
	if p.Location != nil {
		item.Location = *p.Location
	}
	if p.Contact != nil {
		item.Contact = *p.Contact
	}
	if p.Image != nil {
		item.Image = *p.Image
	}
	if p.Status != nil && *p.Status == ItemStatusClaimed {
		item.Status = ItemStatusClaimed
	}
	return item
}

// Fields returns the caller-editable part of item.
func (item Item) Fields() ItemFields {
	return ItemFields{
		Type:        item.Type,
		Title:       item.Title,
		Category:    item.Category,
		Description: item.Description,
		Date:        item.Date,
		Location:    item.Location,
		Contact:     item.Contact,
		Image:       item.Image,
	}
}
