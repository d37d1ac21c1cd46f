package game

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerStartsAtZero(t *testing.T) {
	l := NewLedger(RarityCommon, RarityRare, RarityCommon)
	snap := l.Snapshot()
	assert.Equal(t, []string{RarityCommon, RarityRare}, snap.Order)
	assert.Equal(t, map[string]int{RarityCommon: 0, RarityRare: 0}, snap.Resources)
	assert.Zero(t, snap.Gas)
	assert.Zero(t, snap.Fuel)
}

func TestLedgerRecordDeliveryTouchesOneCounter(t *testing.T) {
	l := NewLedger(RarityCommon, RarityEpic)
	l.RecordDelivery(RarityEpic)

	assert.Equal(t, 1, l.Count(RarityEpic))
	assert.Zero(t, l.Count(RarityCommon))
	assert.Zero(t, l.Gas())
	assert.Zero(t, l.Fuel())
	assert.Equal(t, 1, l.Total())

	l.RecordDelivery("EXOTIC")
	assert.Equal(t, []string{RarityCommon, RarityEpic, "EXOTIC"}, l.Snapshot().Order)
}

func TestLedgerRemoveGasFailsWithoutMutation(t *testing.T) {
	l := NewLedger()
	assert.False(t, l.RemoveGas(1))
	assert.Zero(t, l.Gas())
	assert.Zero(t, l.Fuel())

	l.AddGas(2)
	assert.False(t, l.RemoveGas(3))
	assert.Equal(t, 2, l.Gas())
	assert.True(t, l.RemoveGas(2))
	assert.Zero(t, l.Gas())

	assert.False(t, l.RemoveGas(0))
	assert.False(t, l.RemoveGas(-1))
}

func TestLedgerFuel(t *testing.T) {
	l := NewLedger()
	l.AddFuel(5)
	l.AddFuel(-3)
	assert.Equal(t, 5, l.Fuel())
	assert.False(t, l.RemoveFuel(6))
	assert.True(t, l.RemoveFuel(5))
	assert.Zero(t, l.Fuel())
}

func TestLedgerSnapshotIsACopy(t *testing.T) {
	l := NewLedger(RarityRare)
	snap := l.Snapshot()
	snap.Resources[RarityRare] = 99
	snap.Order[0] = "changed"
	assert.Zero(t, l.Count(RarityRare))
	assert.Equal(t, RarityRare, l.Snapshot().Order[0])
}

func TestLedgerConcurrentDeliveriesAreNotLost(t *testing.T) {
	l := NewLedger(RarityCommon)
	l.AddGas(500)

	var wg sync.WaitGroup
	var removed sync.Map
	for i := range 1000 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.RecordDelivery(RarityCommon)
			if l.RemoveGas(1) {
				removed.Store(i, true)
			}
			_ = l.Snapshot()
		}()
	}
	wg.Wait()

	n := 0
	removed.Range(func(any, any) bool { n++; return true })
	require.Equal(t, 500, n)
	assert.Equal(t, 1000, l.Count(RarityCommon))
	assert.Zero(t, l.Gas())
}
