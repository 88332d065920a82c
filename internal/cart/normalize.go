package cart

import (
	"encoding/json"
	"strconv"
)

// This file is compatibility code for the cart-list endpoint.
//
// The backend has returned the cart in several shapes over time: the list
// nested as {"cart":{"items":[...]}} or {"cart":{"item":[...]}}, the same
// two keys at the top level, or a bare JSON array either at the top level or
// under "cart". Numeric fields have
// appeared both as numbers and as strings. All tolerated variants are
// normalized here, at the store boundary, and nowhere else; treat the set of
// shapes as provisional and confirm the authoritative one with the backend
// before extending it.

// flexFloat decodes a JSON number that may arrive as a number, a numeric
// string, or null. Garbage decodes to zero rather than failing the cart.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*f = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}

// flexInt is flexFloat truncated to an int.
type flexInt int

func (i *flexInt) UnmarshalJSON(data []byte) error {
	var f flexFloat
	if err := f.UnmarshalJSON(data); err != nil {
		return err
	}
	*i = flexInt(f)
	return nil
}

// payloadItem is one line item as the backend serializes it, under any of the
// field names it has used for each attribute.
type payloadItem struct {
	MongoID     string    `json:"_id"`
	ID          string    `json:"id"`
	ProductID   string    `json:"productId"`
	Name        string    `json:"name"`
	ProductName string    `json:"productName"`
	Price       flexFloat `json:"price"`
	Quantity    flexInt   `json:"quantity"`
	Image       string    `json:"image"`
}

func (p payloadItem) itemID() string {
	switch {
	case p.MongoID != "":
		return p.MongoID
	case p.ProductID != "":
		return p.ProductID
	default:
		return p.ID
	}
}

func (p payloadItem) productID() string {
	switch {
	case p.ProductID != "":
		return p.ProductID
	case p.MongoID != "":
		return p.MongoID
	default:
		return p.ID
	}
}

func (p payloadItem) name() string {
	if p.ProductName != "" {
		return p.ProductName
	}
	return p.Name
}

// payloadContainer is the cart object with its optional server summary.
type payloadContainer struct {
	Items         []payloadItem `json:"items"`
	Item          []payloadItem `json:"item"`
	TotalQuantity *flexInt      `json:"totalQuantity"`
	TotalPrice    *flexFloat    `json:"totalPrice"`
}

func (c payloadContainer) rawItems() []payloadItem {
	if c.Items != nil {
		return c.Items
	}
	return c.Item
}

// normalize converts any tolerated cart payload into items plus a summary.
//
// The server summary, when supplied, is authoritative; otherwise the summary
// is the local reduction over the items. A payload that matches none of the
// tolerated shapes normalizes to an empty cart: malformed responses are
// never partially applied and never fail the refresh.
func normalize(raw json.RawMessage) ([]Item, Summary) {
	container, ok := decodeContainer(raw)
	if !ok {
		return nil, Summary{}
	}

	rawItems := container.rawItems()
	items := make([]Item, 0, len(rawItems))
	for _, p := range rawItems {
		items = append(items, Item{
			ID:        p.itemID(),
			ProductID: p.productID(),
			Name:      p.name(),
			UnitPrice: float64(p.Price),
			Quantity:  int(p.Quantity),
			ImageRef:  p.Image,
		})
	}

	summary := Reduce(items)
	if container.TotalQuantity != nil {
		summary.TotalQuantity = int(*container.TotalQuantity)
	}
	if container.TotalPrice != nil {
		summary.TotalPrice = float64(*container.TotalPrice)
	}
	return items, summary
}

func decodeContainer(raw json.RawMessage) (payloadContainer, bool) {
	// A bare array is the simplest tolerated shape.
	var bare []payloadItem
	if err := json.Unmarshal(raw, &bare); err == nil {
		return payloadContainer{Items: bare}, true
	}

	// Otherwise the cart object sits either under "cart" or at the top level.
	var envelope struct {
		Cart json.RawMessage `json:"cart"`
	}
	body := raw
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return payloadContainer{}, false
	}
	if len(envelope.Cart) > 0 && string(envelope.Cart) != "null" {
		body = envelope.Cart

		// The list has also appeared directly under "cart".
		if err := json.Unmarshal(body, &bare); err == nil {
			return payloadContainer{Items: bare}, true
		}
	}

	var container payloadContainer
	if err := json.Unmarshal(body, &container); err != nil {
		return payloadContainer{}, false
	}
	return container, true
}

// Reduce computes the local summary over items, used whenever the server
// does not supply an authoritative one.
func Reduce(items []Item) Summary {
	var s Summary
	for _, item := range items {
		s.TotalQuantity += item.Quantity
		s.TotalPrice += item.UnitPrice * float64(item.Quantity)
	}
	return s
}
