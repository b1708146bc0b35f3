package moltin

import (
	"context"
	"net/http"
)

// AddCartItem adds quantity units of a product to the cart, creating the
// cart implicitly if it does not exist yet.
func (c *Client) AddCartItem(ctx context.Context, cartID, productID string, quantity int) error {
	payload := map[string]any{
		"data": map[string]any{
			"id":       productID,
			"type":     "cart_item",
			"quantity": quantity,
		},
	}
	return c.do(ctx, http.MethodPost, "/v2/carts/"+cartID+"/items", payload, nil)
}

// GetCart fetches the current cart snapshot: lines and formatted totals.
func (c *Client) GetCart(ctx context.Context, cartID string) (Cart, error) {
	var resp cartItemsResponse
	if err := c.do(ctx, http.MethodGet, "/v2/carts/"+cartID+"/items", nil, &resp); err != nil {
		return Cart{}, err
	}

	cart := Cart{
		Items: make([]CartItem, 0, len(resp.Data)),
		Total: resp.Meta.DisplayPrice.WithoutTax.Formatted,
	}
	for _, item := range resp.Data {
		cart.Items = append(cart.Items, CartItem{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			UnitPrice:   item.Meta.DisplayPrice.WithoutTax.Unit.Formatted,
			Quantity:    item.Quantity,
			Total:       item.Meta.DisplayPrice.WithoutTax.Value.Formatted,
		})
	}
	return cart, nil
}

// RemoveCartItem deletes one line from the cart by its line id.
func (c *Client) RemoveCartItem(ctx context.Context, cartID, itemID string) error {
	return c.do(ctx, http.MethodDelete, "/v2/carts/"+cartID+"/items/"+itemID, nil, nil)
}

// CreateCustomer registers a customer record in the CMS.
func (c *Client) CreateCustomer(ctx context.Context, email, name string) error {
	if name == "" {
		name = "Unknown"
	}
	payload := map[string]any{
		"data": map[string]any{
			"type":  "customer",
			"name":  name,
			"email": email,
		},
	}
	return c.do(ctx, http.MethodPost, "/v2/customers", payload, nil)
}
