package categories

import "github.com/cleared-dev/tally/internal/model"

// Index provides lookup over the live categories of a state.
type Index struct {
	categories []model.Category
	byID       map[model.ID]model.Category
	byName     map[string]model.Category
}

// NewIndex creates an Index from a slice of categories. When two categories
// share a name the first one wins the name lookup.
func NewIndex(cats []model.Category) *Index {
	byID := make(map[model.ID]model.Category, len(cats))
	byName := make(map[string]model.Category, len(cats))
	for _, c := range cats {
		byID[c.ID] = c
		if _, dup := byName[c.Name]; !dup {
			byName[c.Name] = c
		}
	}
	return &Index{categories: cats, byID: byID, byName: byName}
}

// All returns all categories in their original order.
func (x *Index) All() []model.Category {
	return x.categories
}

// Get returns a category by ID.
func (x *Index) Get(id model.ID) (model.Category, bool) {
	c, ok := x.byID[id]
	return c, ok
}

// Exists reports whether a category ID is live.
func (x *Index) Exists(id model.ID) bool {
	_, ok := x.byID[id]
	return ok
}

// ByName returns the category with the exact (case-sensitive) name.
func (x *Index) ByName(name string) (model.Category, bool) {
	c, ok := x.byName[name]
	return c, ok
}

// Resolve maps a category reference to a live ID. The reference may be an
// ID or a category name; anything else resolves to Uncategorized.
func (x *Index) Resolve(ref model.ID) model.ID {
	if x.Exists(ref) {
		return ref
	}
	if c, ok := x.ByName(string(ref)); ok {
		return c.ID
	}
	return model.Uncategorized
}

// Colors returns the colors in use, skipping empty ones.
func (x *Index) Colors() []string {
	var out []string
	for _, c := range x.categories {
		if c.Color != "" {
			out = append(out, c.Color)
		}
	}
	return out
}
