// Package content implements the text content domain: titled, categorized
// records stored one table per resource and served over a shared set of
// CRUD endpoints. Each resource family is described by a Resource and
// served by its own System instance.
package content

import "strings"

// Resource describes one content family: its route segment, backing table,
// and the names used in responses and error messages.
type Resource struct {
	// Name is the route segment and metrics label, e.g. "base-content".
	Name string
	// Table is the database table holding the records.
	Table string
	// Label is the capitalized singular used in messages, e.g. "Base content".
	Label string
	// Plural is the lowercase plural used in messages, e.g. "base contents".
	Plural string
}

// Noun returns the lowercase singular, e.g. "base content".
func (r Resource) Noun() string {
	return strings.ToLower(r.Label)
}

// Prompts are reusable AI prompts.
var Prompts = Resource{
	Name:   "prompt",
	Table:  "prompt",
	Label:  "Prompt",
	Plural: "prompts",
}

// BaseContents are reference texts that prompts build on.
var BaseContents = Resource{
	Name:   "base-content",
	Table:  "base_content",
	Label:  "Base content",
	Plural: "base contents",
}

// Resources lists every resource family served by the API.
func Resources() []Resource {
	return []Resource{Prompts, BaseContents}
}
