package model

import "time"

type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	Archived  bool      `json:"archived"`
}

// Location is a place items live (a room, a shelf, a box). Locations may nest.
type Location struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  *string   `json:"parentId,omitempty"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	Archived  bool      `json:"archived"`
}

// SpecEntry is one serialized specification pair on an item.
// Value is typed at serialization time: bool, float64, or string.
// Entry order is significant and round-trips through the store.
type SpecEntry struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

type Item struct {
	ID string `json:"id"`

	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	CategoryID string   `json:"categoryId,omitempty"`
	LocationID string   `json:"locationId,omitempty"`
	Quantity   int      `json:"quantity"`
	Tags       []string `json:"tags,omitempty"`

	// Specs is the canonical ordered-array shape. The web layer can also
	// accept and emit the legacy object-map shape; see internal/specs.
	Specs []SpecEntry `json:"specs,omitempty"`

	Archived bool `json:"archived"`

	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Event struct {
	ID       string    `json:"id"`
	TS       time.Time `json:"ts"`
	UserID   string    `json:"userId"`
	Type     string    `json:"type"`
	EntityID string    `json:"entityId"`
	Payload  any       `json:"payload"`
}
