package view

import "slices"

// Column describes one renderable field of a record
type Column struct {
	UID      string
	Name     string
	Sortable bool
	// Locked columns are always visible
	Locked bool
}

// Columns tracks which columns are rendered. It is a presentation-only
// projection and never changes what Apply returns.
type Columns struct {
	all     []Column
	visible map[string]bool
}

// NewColumns creates a column set; with no initial uids every column is visible
func NewColumns(all []Column, initial ...string) *Columns {
	c := &Columns{all: all}
	if len(initial) == 0 {
		c.ShowAll()
	} else {
		c.SetVisible(initial)
	}
	return c
}

// All returns every column in declaration order
func (c *Columns) All() []Column {
	return slices.Clone(c.all)
}

// Visible returns the visible columns in declaration order
func (c *Columns) Visible() []Column {
	out := make([]Column, 0, len(c.all))
	for _, col := range c.all {
		if c.visible[col.UID] {
			out = append(out, col)
		}
	}
	return out
}

// IsVisible reports whether a column is rendered
func (c *Columns) IsVisible(uid string) bool {
	return c.visible[uid]
}

// SetVisible shows exactly the given columns plus the locked ones.
// Unknown uids are ignored.
func (c *Columns) SetVisible(uids []string) {
	c.visible = make(map[string]bool, len(c.all))
	for _, col := range c.all {
		if col.Locked || slices.Contains(uids, col.UID) {
			c.visible[col.UID] = true
		}
	}
}

// ShowAll makes every column visible
func (c *Columns) ShowAll() {
	c.visible = make(map[string]bool, len(c.all))
	for _, col := range c.all {
		c.visible[col.UID] = true
	}
}

// Toggle flips a column's visibility; locked columns stay visible
func (c *Columns) Toggle(uid string) {
	for _, col := range c.all {
		if col.UID == uid && !col.Locked {
			c.visible[uid] = !c.visible[uid]
		}
	}
}

// Sortable reports whether uid names a sortable column
func (c *Columns) Sortable(uid string) bool {
	for _, col := range c.all {
		if col.UID == uid {
			return col.Sortable
		}
	}
	return false
}

// UIDs returns the uids of the visible columns
func (c *Columns) UIDs() []string {
	var out []string
	for _, col := range c.Visible() {
		out = append(out, col.UID)
	}
	return out
}
