package cart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSnapshotRestoreKeepsOrderAndTotals(t *testing.T) {
	c := New(DefaultFeeTable())
	c.AddItem(Product{ID: "b", Name: "B", UnitPrice: dec(300), Photo: "b.jpg"})
	c.AddItem(Product{ID: "a", Name: "A", UnitPrice: dec(500)})
	c.AddItem(Product{ID: "a", Name: "A", UnitPrice: dec(500)})
	c.SetDeliveryFee("Sylhet")

	raw, err := json.Marshal(c.Snapshot())
	require.NoError(t, err)

	var decoded Snapshot
	require.NoError(t, json.Unmarshal(raw, &decoded))
	restored := Restore(decoded, DefaultFeeTable())

	require.Equal(t, c.LineItems()[0].ProductID, restored.LineItems()[0].ProductID)
	require.Equal(t, "Sylhet", restored.District())
	require.True(t, c.Total().Equal(restored.Total()), "want %s got %s", c.Total(), restored.Total())
}

func TestRestoreDropsCorruptLines(t *testing.T) {
	restored := Restore(Snapshot{Items: []LineItem{
		{ProductID: "a", UnitPrice: dec(1), OrderQuantity: 2},
		{ProductID: "a", UnitPrice: dec(1), OrderQuantity: 5},
		{ProductID: "b", UnitPrice: dec(1), OrderQuantity: 0},
		{ProductID: "", UnitPrice: dec(1), OrderQuantity: 1},
	}}, DefaultFeeTable())

	require.Equal(t, 1, restored.ItemCount())
	require.Equal(t, 2, restored.LineItems()[0].OrderQuantity)
}

func TestRestoreRepricesDistrict(t *testing.T) {
	restored := Restore(Snapshot{District: "Dhaka", DeliveryFee: dec(999)}, DefaultFeeTable())
	require.True(t, restored.DeliveryFee().Equal(dec(100)))
}
