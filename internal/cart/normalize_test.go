package cart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeToleratedShapes(t *testing.T) {
	item := `{"_id":"a","productId":"p1","productName":"Widget","price":100,"quantity":2,"image":"w.png"}`

	tests := []struct {
		name    string
		payload string
	}{
		{"nested cart items", `{"cart":{"items":[` + item + `]}}`},
		{"nested cart item", `{"cart":{"item":[` + item + `]}}`},
		{"top level items", `{"items":[` + item + `]}`},
		{"top level item", `{"item":[` + item + `]}`},
		{"bare list", `[` + item + `]`},
		{"bare list under cart", `{"cart":[` + item + `]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, summary := normalize(json.RawMessage(tt.payload))
			assert.Len(t, items, 1)
			assert.Equal(t, "a", items[0].ID)
			assert.Equal(t, "p1", items[0].ProductID)
			assert.Equal(t, "Widget", items[0].Name)
			assert.Equal(t, 100.0, items[0].UnitPrice)
			assert.Equal(t, 2, items[0].Quantity)
			assert.Equal(t, Summary{TotalQuantity: 2, TotalPrice: 200}, summary)
		})
	}
}

func TestNormalizeComputedSummary(t *testing.T) {
	payload := `{"items":[
		{"_id":"a","price":100,"quantity":2},
		{"_id":"b","price":50,"quantity":1}
	]}`

	_, summary := normalize(json.RawMessage(payload))
	assert.Equal(t, Summary{TotalQuantity: 3, TotalPrice: 250}, summary)
}

func TestNormalizeServerSummaryIsAuthoritative(t *testing.T) {
	// The server totals win even when they diverge from the local reduction.
	payload := `{"cart":{"items":[{"_id":"a","price":100,"quantity":2}],"totalQuantity":5,"totalPrice":999}}`

	_, summary := normalize(json.RawMessage(payload))
	assert.Equal(t, Summary{TotalQuantity: 5, TotalPrice: 999}, summary)
}

func TestNormalizeFieldNameFallbacks(t *testing.T) {
	payload := `{"items":[{"id":"only-id","name":"Plain","price":"25","quantity":"3"}]}`

	items, summary := normalize(json.RawMessage(payload))
	assert.Len(t, items, 1)
	assert.Equal(t, "only-id", items[0].ID)
	assert.Equal(t, "Plain", items[0].Name)
	// String-encoded numbers are tolerated.
	assert.Equal(t, 25.0, items[0].UnitPrice)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, Summary{TotalQuantity: 3, TotalPrice: 75}, summary)
}

func TestNormalizeMalformedIsEmptyNeverPartial(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"garbage", `"just a string"`},
		{"null", `null`},
		{"items not a list", `{"items":{"a":1}}`},
		{"cart not an object", `{"cart":42}`},
		{"empty object", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, summary := normalize(json.RawMessage(tt.payload))
			assert.Empty(t, items)
			assert.Equal(t, Summary{}, summary)
		})
	}
}

func TestNormalizeGarbageNumbersDecodeToZero(t *testing.T) {
	payload := `{"items":[{"_id":"a","price":{"weird":true},"quantity":[1]}]}`

	items, _ := normalize(json.RawMessage(payload))
	assert.Len(t, items, 1)
	assert.Equal(t, 0.0, items[0].UnitPrice)
	assert.Equal(t, 0, items[0].Quantity)
}

func TestReduce(t *testing.T) {
	items := []Item{
		{ID: "a", UnitPrice: 100, Quantity: 2},
		{ID: "b", UnitPrice: 50, Quantity: 1},
	}
	assert.Equal(t, Summary{TotalQuantity: 3, TotalPrice: 250}, Reduce(items))
	assert.Equal(t, Summary{}, Reduce(nil))
}
