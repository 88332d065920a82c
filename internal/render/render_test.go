package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gadgetloop/storefront/internal/cart"
	"github.com/gadgetloop/storefront/internal/catalog"
	"github.com/gadgetloop/storefront/internal/session"
)

func TestCartRendersItemsAndTotals(t *testing.T) {
	out := Cart([]cart.Item{
		{ID: "c1", Name: "Wireless Headset", UnitPrice: 2500, Quantity: 2},
		{ID: "c2", Name: "USB Hub", UnitPrice: 900, Quantity: 1},
	}, cart.Summary{TotalQuantity: 3, TotalPrice: 5900})

	assert.Contains(t, out, "Wireless Headset")
	assert.Contains(t, out, "Rs 5900.00")
	assert.Contains(t, out, "3")
}

func TestCartEmpty(t *testing.T) {
	out := Cart(nil, cart.Summary{})
	assert.Contains(t, out, "empty")
}

func TestProductsTruncatesLongNames(t *testing.T) {
	out := Products([]catalog.Product{
		{ID: "p1", Name: "An Exceedingly Long Product Name That Overflows", Brand: "Acme", Price: 100},
	})

	assert.NotContains(t, out, "An Exceedingly Long Product Name That Overflows")
	assert.Contains(t, out, "...")
}

func TestSessionStatusByState(t *testing.T) {
	resolved := SessionStatus(session.Snapshot{
		Status: session.StatusResolved,
		User:   &session.User{FirstName: "Asha", LastName: "Shrestha", Email: "asha@example.com", Role: session.RoleBuyer},
	})
	assert.Contains(t, resolved, "Logged in")
	assert.Contains(t, resolved, "asha@example.com")

	assert.Contains(t, SessionStatus(session.Snapshot{Status: session.StatusAnonymous}), "Not logged in")
	assert.Contains(t, SessionStatus(session.Snapshot{Status: session.StatusResolving}), "Resolving")
}
