package chat

import (
	"strings"

	"github.com/mkwiat/parley"
)

// Composer owns the per-turn draft: input text, selected model and the
// web-search toggle. Model selection is constrained to the catalog; the
// default is the first catalog entry.
type Composer struct {
	catalog   parley.Catalog
	text      string
	model     parley.ModelOption
	webSearch bool
}

// NewComposer creates a Composer over catalog. A nil or empty catalog falls
// back to the built-in one.
func NewComposer(catalog parley.Catalog) *Composer {
	if len(catalog) == 0 {
		catalog = parley.DefaultCatalog()
	}
	return &Composer{
		catalog: catalog,
		model:   catalog.Default(),
	}
}

// Text returns the current draft text.
func (c *Composer) Text() string { return c.text }

// SetText replaces the draft text.
func (c *Composer) SetText(s string) { c.text = s }

// Model returns the selected model.
func (c *Composer) Model() parley.ModelOption { return c.model }

// Catalog returns the model catalog.
func (c *Composer) Catalog() parley.Catalog { return c.catalog }

// SelectModel selects the catalog entry with the given id. Ids not in the
// catalog are rejected with ErrUnknownModel and the selection is unchanged.
func (c *Composer) SelectModel(id string) error {
	for _, m := range c.catalog {
		if m.ID == id {
			c.model = m
			return nil
		}
	}
	return parley.ErrUnknownModel
}

// CycleModel advances the selection to the next catalog entry, wrapping.
func (c *Composer) CycleModel() {
	c.model = c.catalog.Next(c.model.ID)
}

// WebSearch returns the web-search toggle.
func (c *Composer) WebSearch() bool { return c.webSearch }

// ToggleWebSearch flips the web-search toggle.
func (c *Composer) ToggleWebSearch() { c.webSearch = !c.webSearch }

// Submit converts the draft into an outbound text and options. A draft
// that trims to empty is a no-op: ok is false and the draft is untouched.
// On accept the draft text is cleared immediately, independent of whether
// the send later fails.
func (c *Composer) Submit() (text string, opts parley.Options, ok bool) {
	trimmed := strings.TrimSpace(c.text)
	if trimmed == "" {
		return "", parley.Options{}, false
	}
	c.text = ""
	return trimmed, parley.Options{
		Model:     c.model.ID,
		WebSearch: c.webSearch,
	}, true
}
