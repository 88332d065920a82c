// Package cart maintains the authoritative local view of the remote cart.
//
// Mutations are refetch-after-write: every write is followed by a full
// refresh instead of predicting the result locally, trading one extra round
// trip per mutation for correctness. Two mutations issued in quick
// succession can still race their resyncs; the last refresh to complete wins
// and is treated as authoritative. A stricter design would serialize
// mutation+resync pairs through a queue.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gadgetloop/storefront/internal/api"
	"github.com/gadgetloop/storefront/internal/errors"
	"github.com/gadgetloop/storefront/internal/log"
)

// Quantity bounds enforced client-side per line item. The backend remains
// the final authority and may reject sooner.
const (
	MinQuantity = 1
	MaxQuantity = 6
)

// Direction selects increment or decrement for a one-unit quantity change.
type Direction int

const (
	// Increment raises the quantity by one unit.
	Increment Direction = iota
	// Decrement lowers the quantity by one unit.
	Decrement
)

// Item is one line item in the cart. The ID is server-assigned.
type Item struct {
	ID        string
	ProductID string
	Name      string
	UnitPrice float64
	Quantity  int
	ImageRef  string
}

// Summary is the cart's derived totals. When the server supplies its own
// summary it is authoritative and may diverge transiently from the local
// reduction during a refresh race.
type Summary struct {
	TotalQuantity int
	TotalPrice    float64
}

// LogoutNotifier is the slice of the session store the cart observes. The
// dependency is one-directional: the session store knows nothing about carts.
type LogoutNotifier interface {
	OnLogout(func())
}

// Store holds the local cart state and issues the remote cart operations.
// Every operation requires a session credential and fails with AUTH-001
// without one; callers redirect to login on that error.
type Store struct {
	client *api.Client
	logger *log.Logger

	mu      sync.Mutex
	items   []Item
	summary Summary
}

// NewStore creates a cart store over the given API client.
func NewStore(client *api.Client, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Store{
		client: client,
		logger: logger,
	}
}

// BindSession subscribes the cart to session logout events so a logout
// always leaves the cart empty.
func (s *Store) BindSession(notifier LogoutNotifier) {
	notifier.OnLogout(s.clearLocal)
}

// Items returns a copy of the current line items.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]Item, len(s.items))
	copy(items, s.items)
	return items
}

// Summary returns the current derived totals.
func (s *Store) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

// Refresh fetches the full cart and replaces the local state wholesale.
// There is no partial merge; full replacement avoids drift from concurrent
// mutations. Malformed payloads normalize to an empty cart rather than
// failing the operation.
func (s *Store) Refresh(ctx context.Context) error {
	if err := s.requireAuth("cart refresh"); err != nil {
		return err
	}

	var raw json.RawMessage
	if err := s.client.Get(ctx, api.PathCartList, &raw); err != nil {
		return err
	}

	items, summary := normalize(raw)

	s.mu.Lock()
	s.items = items
	s.summary = summary
	s.mu.Unlock()

	s.logger.Debug("cart refreshed", "items", len(items), "total_quantity", summary.TotalQuantity)
	return nil
}

// quantityUpdate is the one-unit increment-or-decrement request body. The
// backend takes a delta, never an absolute target.
type quantityUpdate struct {
	Inc int `json:"inc"`
	Dec int `json:"dec"`
}

// ChangeQuantity issues a one-unit quantity change for the item, then
// resyncs. Changes that would leave the range [MinQuantity, MaxQuantity] are
// refused client-side with no remote call issued.
func (s *Store) ChangeQuantity(ctx context.Context, itemID string, direction Direction) error {
	if err := s.requireAuth("quantity change"); err != nil {
		return err
	}

	s.mu.Lock()
	item, found := s.findLocked(itemID)
	s.mu.Unlock()
	if !found {
		return errors.New(errors.ErrCodeCartItemNotFound, fmt.Sprintf("item %s is not in the cart", itemID)).
			WithSuggestion("Run 'gadgetloop cart list' to see current items")
	}

	update := quantityUpdate{}
	switch direction {
	case Increment:
		if item.Quantity >= MaxQuantity {
			return errors.NewQuantityBoundsError(itemID, item.Quantity+1)
		}
		update.Inc = 1
	case Decrement:
		if item.Quantity <= MinQuantity {
			return errors.NewQuantityBoundsError(itemID, item.Quantity-1)
		}
		update.Dec = 1
	}

	// The mutation response carries no complete cart; resync instead.
	if err := s.client.Post(ctx, api.PathCartUpdate(itemID), update, nil); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// RemoveItem removes a line item, then resyncs.
func (s *Store) RemoveItem(ctx context.Context, itemID string) error {
	if err := s.requireAuth("item removal"); err != nil {
		return err
	}

	if err := s.client.Post(ctx, api.PathCartDelete(itemID), struct{}{}, nil); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// AddProduct puts one unit of a product into the cart, then resyncs.
func (s *Store) AddProduct(ctx context.Context, productID string) error {
	if err := s.requireAuth("add to cart"); err != nil {
		return err
	}

	if err := s.client.Post(ctx, api.PathCartAdd(productID), struct{}{}, nil); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// Flush clears the remote cart. On success the local state is zeroed
// directly; the outcome is known, so no refetch is needed.
func (s *Store) Flush(ctx context.Context) error {
	if err := s.requireAuth("cart flush"); err != nil {
		return err
	}

	if err := s.client.Delete(ctx, api.PathCartFlush, nil); err != nil {
		return err
	}

	s.clearLocal()
	return nil
}

func (s *Store) clearLocal() {
	s.mu.Lock()
	s.items = nil
	s.summary = Summary{}
	s.mu.Unlock()
}

func (s *Store) findLocked(itemID string) (Item, bool) {
	for _, item := range s.items {
		if item.ID == itemID {
			return item, true
		}
	}
	return Item{}, false
}

func (s *Store) requireAuth(operation string) error {
	if !s.client.HasToken() {
		return errors.NewUnauthenticatedError(operation)
	}
	return nil
}
