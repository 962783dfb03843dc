// Package typeid generates the prefixed, sortable ids of scene nodes,
// layers, documents and editor sessions.
package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixNode     = "node"
	PrefixLayer    = "layer"
	PrefixDocument = "doc"
	PrefixSession  = "sess"
)

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewNodeID() string     { return New(PrefixNode) }
func NewLayerID() string    { return New(PrefixLayer) }
func NewDocumentID() string { return New(PrefixDocument) }
func NewSessionID() string  { return New(PrefixSession) }

// Validate checks that id is a well-formed typeid with the given prefix.
func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}
