package parley

// ModelOption is one entry in the fixed model catalog offered by the
// composer.
type ModelOption struct {
	DisplayName string
	ID          string
}

// Catalog is the enumerated list of selectable models. The first entry is
// the default.
type Catalog []ModelOption

// DefaultCatalog returns the built-in model list.
func DefaultCatalog() Catalog {
	return Catalog{
		{DisplayName: "GPT-4o", ID: "openai/gpt-4o"},
		{DisplayName: "GPT-4o mini", ID: "openai/gpt-4o-mini"},
		{DisplayName: "Claude Sonnet 4", ID: "anthropic/claude-sonnet-4"},
		{DisplayName: "Gemini 2.5 Flash", ID: "google/gemini-2.5-flash"},
	}
}

// Default returns the first catalog entry. Panics on an empty catalog,
// which is a configuration error.
func (c Catalog) Default() ModelOption {
	return c[0]
}

// Contains reports whether id is a catalog entry.
func (c Catalog) Contains(id string) bool {
	for _, m := range c {
		if m.ID == id {
			return true
		}
	}
	return false
}

// DisplayName returns the display name for id, or id itself when it is not
// in the catalog.
func (c Catalog) DisplayName(id string) string {
	for _, m := range c {
		if m.ID == id {
			return m.DisplayName
		}
	}
	return id
}

// Next returns the entry following id, wrapping around. Used by the model
// picker. Unknown ids return the default.
func (c Catalog) Next(id string) ModelOption {
	for i, m := range c {
		if m.ID == id {
			return c[(i+1)%len(c)]
		}
	}
	return c.Default()
}
