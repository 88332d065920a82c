package cart

import (
	"context"
	"fmt"

	"github.com/gadgetloop/storefront/internal/api"
	"github.com/gadgetloop/storefront/internal/errors"
)

// CashOrderOutcome reports how far a cash-on-delivery checkout got.
//
// The backend has no atomic multi-item order primitive, so the checkout
// places one order per line item in sequence. A failure partway leaves the
// earlier items ordered and the rest (including the failed one) still in the
// cart for a retry; Ordered and Remaining partition the cart accordingly.
type CashOrderOutcome struct {
	Ordered   []Item
	Remaining []Item
}

// orderRequest is the per-item order placement body.
type orderRequest struct {
	Quantity int `json:"quantity"`
}

// CheckoutCashOnDelivery places one order per line item, flushing the cart
// only after every item ordered successfully.
//
// On partial failure the returned error is the failure from the first item
// that could not be ordered (unavailable or rejected, per the taxonomy), the
// cart is NOT flushed, and the outcome lists what was and was not ordered.
func (s *Store) CheckoutCashOnDelivery(ctx context.Context) (CashOrderOutcome, error) {
	if err := s.requireAuth("checkout"); err != nil {
		return CashOrderOutcome{}, err
	}

	items := s.Items()
	if len(items) == 0 {
		return CashOrderOutcome{}, errors.New(errors.ErrCodeEmptyCheckout, "cart is empty, nothing to order")
	}

	for i, item := range items {
		if err := s.client.Post(ctx, api.PathOrderProduct(item.ID), orderRequest{Quantity: item.Quantity}, nil); err != nil {
			s.logger.WithError(err).Warn("cash-on-delivery order failed partway",
				"ordered", i, "remaining", len(items)-i)
			return CashOrderOutcome{
				Ordered:   items[:i],
				Remaining: items[i:],
			}, fmt.Errorf("order for item %s: %w", item.ID, err)
		}
	}

	outcome := CashOrderOutcome{Ordered: items}
	if err := s.Flush(ctx); err != nil {
		// Every order was placed; only the flush failed. The caller can
		// retry the flush without re-ordering.
		return outcome, err
	}
	return outcome, nil
}

// OrderProduct places a single cash-on-delivery order for one product
// without going through the cart, the "buy now" path from a product page.
// The quantity obeys the same bounds the cart enforces.
func (s *Store) OrderProduct(ctx context.Context, productID string, quantity int) error {
	if err := s.requireAuth("order"); err != nil {
		return err
	}

	if quantity < MinQuantity || quantity > MaxQuantity {
		return errors.NewQuantityBoundsError(productID, quantity)
	}

	return s.client.Post(ctx, api.PathOrderProduct(productID), orderRequest{Quantity: quantity}, nil)
}

// paymentInitiateResponse carries the gateway handoff URL.
type paymentInitiateResponse struct {
	PaymentURL string `json:"payment_url"`
}

// CheckoutOnline requests a payment-initiation handoff from the gateway and
// returns the URL the caller must open. The cart is left untouched until the
// separate payment-callback flow verifies the payment and flushes it.
func (s *Store) CheckoutOnline(ctx context.Context) (string, error) {
	if err := s.requireAuth("online payment"); err != nil {
		return "", err
	}

	if len(s.Items()) == 0 {
		return "", errors.New(errors.ErrCodeEmptyCheckout, "cart is empty, nothing to pay for")
	}

	var resp paymentInitiateResponse
	if err := s.client.Post(ctx, api.PathPaymentInitiate, struct{}{}, &resp); err != nil {
		return "", err
	}

	if resp.PaymentURL == "" {
		return "", errors.New(errors.ErrCodeMalformedResponse, "payment initiation returned no payment_url")
	}
	return resp.PaymentURL, nil
}

// paymentVerifyRequest identifies the gateway transaction to verify.
type paymentVerifyRequest struct {
	Pidx string `json:"pidx"`
}

// VerifyPayment confirms a completed online payment from the payment-return
// callback and flushes the now-paid-for cart.
func (s *Store) VerifyPayment(ctx context.Context, pidx string) error {
	if err := s.requireAuth("payment verification"); err != nil {
		return err
	}

	if pidx == "" {
		return errors.NewRejectedError("payment verification", "missing pidx transaction identifier")
	}

	if err := s.client.Post(ctx, api.PathPaymentVerify, paymentVerifyRequest{Pidx: pidx}, nil); err != nil {
		return err
	}
	return s.Flush(ctx)
}
