package game

// Visibility controls who may see an inventory.
type Visibility string

const (
	// VisibilityEveryone shares the inventory with the whole table.
	VisibilityEveryone Visibility = "everyone"
	// VisibilityOwner restricts the inventory to its owner and the game master.
	VisibilityOwner Visibility = "owner"
)

// Character is the attribute bundle owned by a player participant.
// Its schema is authority-owned; the client replaces it with the rest of
// the session and never edits nested fields directly.
type Character struct {
	Bars        []Bar       `json:"bars,omitempty"`
	Statuses    []Status    `json:"statuses,omitempty"`
	Inventories []Inventory `json:"inventories,omitempty"`
}

// Bar is a labelled gauge such as hit points.
type Bar struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Current int    `json:"current"`
	Max     int    `json:"max"`
}

// Status is a labelled marker such as "poisoned".
type Status struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value,omitempty"`
}

// Inventory is a named collection of items with a visibility policy.
type Inventory struct {
	ID         string     `json:"id"`
	Label      string     `json:"label"`
	Visibility Visibility `json:"visibility"`
	Items      []Item     `json:"items,omitempty"`
}

// Item is a single inventory entry.
type Item struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Quantity    int    `json:"quantity"`
}
