package api

import (
	"fmt"
	"net/url"
)

// Versioned endpoint paths for the storefront backend.
//
// v0 is guest/public, v1 is user auth and profile, v3 is cart, orders and
// payment. The paths mirror the backend routing table and are the single
// place it is encoded client-side.
const (
	PathProducts      = "/api/v0/products"
	PathProductSearch = "/api/v0/product/search"

	PathSignup  = "/api/v1/user/signup"
	PathLogin   = "/api/v1/user/login"
	PathProfile = "/api/v1/user/profile/"

	PathProfileName     = "/api/v1/user/profile/name"
	PathProfileEmail    = "/api/v1/user/profile/email"
	PathProfilePassword = "/api/v1/user/profile/password"

	PathCartList  = "/api/v3/user/cart/list"
	PathCartFlush = "/api/v3/user/cart/flush"

	PathPaymentInitiate = "/api/v3/payment/khalti/initiate"
	PathPaymentVerify   = "/api/v3/payment/khalti/verify"
)

// PathProductView returns the public product-detail path.
func PathProductView(productID string) string {
	return fmt.Sprintf("/api/v0/product/view/%s", url.PathEscape(productID))
}

// PathCartAdd returns the add-to-cart path for a product.
func PathCartAdd(productID string) string {
	return fmt.Sprintf("/api/v3/product/add/cart/%s", url.PathEscape(productID))
}

// PathCartUpdate returns the quantity-update path for a cart item.
func PathCartUpdate(itemID string) string {
	return fmt.Sprintf("/api/v3/user/cart/%s/update", url.PathEscape(itemID))
}

// PathCartDelete returns the removal path for a cart item.
func PathCartDelete(itemID string) string {
	return fmt.Sprintf("/api/v3/product/delete/cart/%s", url.PathEscape(itemID))
}

// PathOrderProduct returns the per-item order placement path.
func PathOrderProduct(itemID string) string {
	return fmt.Sprintf("/api/v3/order/product/%s", url.PathEscape(itemID))
}
