package event

import (
	"testing"

	"github.com/hexworld/hexcore/internal/hex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventsDeliveredAfterFlush(t *testing.T) {
	b := NewBus()
	var got []hex.GridCoord
	Subscribe(b, func(e OccupantMoved) { got = append(got, e.To) })

	Emit(b, OccupantMoved{To: hex.GridCoord{X: 1}})
	Emit(b, OccupantMoved{To: hex.GridCoord{X: 2}})
	assert.Equal(t, 2, Pending[OccupantMoved](b))
	assert.Empty(t, got)

	b.Flush()
	assert.Equal(t, []hex.GridCoord{{X: 1}, {X: 2}}, got)
	assert.Zero(t, Pending[OccupantMoved](b))

	b.Flush()
	assert.Len(t, got, 2)
}

func TestDeliveryFollowsEmissionOrderAcrossTypes(t *testing.T) {
	b := NewBus()
	var got []string
	Subscribe(b, func(OccupantPlaced) { got = append(got, "placed") })
	Subscribe(b, func(OccupantRemoved) { got = append(got, "removed") })
	Subscribe(b, func(CellsRevealed) { got = append(got, "revealed") })

	for i := 0; i < 8; i++ {
		Emit(b, OccupantPlaced{})
		Emit(b, CellsRevealed{})
		Emit(b, OccupantRemoved{})
	}
	assert.Equal(t, 8, Pending[CellsRevealed](b))
	b.Flush()

	require.Len(t, got, 24)
	for i := 0; i < 24; i += 3 {
		assert.Equal(t, []string{"placed", "revealed", "removed"}, got[i:i+3])
	}
}

func TestHandlerEmitsWaitForNextFlush(t *testing.T) {
	b := NewBus()
	var moved int
	Subscribe(b, func(OccupantPlaced) { Emit(b, OccupantMoved{}) })
	Subscribe(b, func(OccupantMoved) { moved++ })

	Emit(b, OccupantPlaced{})
	b.Flush()
	assert.Zero(t, moved)
	assert.Equal(t, 1, Pending[OccupantMoved](b))
	b.Flush()
	assert.Equal(t, 1, moved)
}
