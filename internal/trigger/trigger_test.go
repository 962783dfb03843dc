package trigger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmitReachesSubscribersInOrder(t *testing.T) {
	b := New()
	var got []string
	b.On(SelectionChanged, func(Name) { got = append(got, "first") })
	b.On(SelectionChanged, func(Name) { got = append(got, "second") })
	b.On(DeleteItems, func(Name) { got = append(got, "delete") })

	b.Emit(SelectionChanged)
	assert.Equal(t, []string{"first", "second"}, got)

	got = nil
	b.EmitAll(DeleteItems, SelectionChanged)
	assert.Equal(t, []string{"delete", "first", "second"}, got)
}

func TestOffRemovesOnlyThatSubscription(t *testing.T) {
	b := New()
	calls := 0
	id := b.On(LayersChanged, func(Name) { calls += 10 })
	b.On(LayersChanged, func(Name) { calls++ })

	b.Off(id)
	b.Off(id)
	b.Emit(LayersChanged)
	assert.Equal(t, 1, calls)
}

func TestHandlerMayUnsubscribeWhileEmitting(t *testing.T) {
	b := New()
	var id uint64
	calls := 0
	id = b.On(DeleteItems, func(Name) {
		calls++
		b.Off(id)
	})

	b.Emit(DeleteItems)
	b.Emit(DeleteItems)
	assert.Equal(t, 1, calls)
}
