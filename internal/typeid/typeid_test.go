package typeid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratedIDsCarryPrefix(t *testing.T) {
	for prefix, gen := range map[string]func() string{
		PrefixNode:     NewNodeID,
		PrefixLayer:    NewLayerID,
		PrefixDocument: NewDocumentID,
		PrefixSession:  NewSessionID,
	} {
		id := gen()
		assert.True(t, strings.HasPrefix(id, prefix+"_"), id)
		require.NoError(t, Validate(id, prefix))
	}
	assert.NotEqual(t, NewNodeID(), NewNodeID())
}

func TestValidate(t *testing.T) {
	assert.Error(t, Validate("not an id", PrefixNode))
	assert.ErrorContains(t, Validate(NewLayerID(), PrefixNode), `expected prefix "node"`)
}
