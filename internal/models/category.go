package models

// Category is a label+color+icon triple keyed by a short string id. The set
// is user-editable except for the reserved ids.
type Category struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon,omitempty"`
}

// CategoryPatch is a partial category update.
type CategoryPatch struct {
	Label *string `json:"label,omitempty"`
	Color *string `json:"color,omitempty"`
	Icon  *string `json:"icon,omitempty"`
}

func (p CategoryPatch) Apply(c Category) Category {
	if p.Label != nil {
		c.Label = *p.Label
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	if p.Icon != nil {
		c.Icon = *p.Icon
	}
	return c
}
