// Package jsonapi turns a crate's symbol graph into a JSON:API-shaped
// documentation envelope.
package jsonapi

// Data is a relationship stub: a pointer to a Document in the included set.
type Data struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Relationship is one bucket of stubs sharing a resource type.
type Relationship struct {
	Data []Data `json:"data"`
}

// Document describes a single symbol, or the crate itself.
type Document struct {
	Type          string                   `json:"type"`
	ID            string                   `json:"id"`
	Attributes    map[string]string        `json:"attributes"`
	Relationships map[string]*Relationship `json:"relationships,omitempty"`
}

// NewDocument returns a Document with no attributes or relationships.
func NewDocument(ty, id string) *Document {
	return &Document{Type: ty, ID: id, Attributes: make(map[string]string)}
}

// WithAttribute sets an attribute and returns d for chaining.
func (d *Document) WithAttribute(key, value string) *Document {
	d.Attributes[key] = value
	return d
}

// Documentation is the top-level envelope written to data.json.
type Documentation struct {
	Data     *Document   `json:"data"`
	Included []*Document `json:"included"`
}
