package api

import (
	"context"
	"net/http"
	"strconv"
)

// ItemService defines the item endpoints. It is implemented by *Client and
// can be replaced in tests.
type ItemService interface {
	ListItems(ctx context.Context) ([]Item, error)
	GetItem(ctx context.Context, id int64) (Item, error)
	CreateItem(ctx context.Context, dto CreateItemDTO) (Item, error)
	UpdateItem(ctx context.Context, id int64, dto UpdateItemDTO) (Item, error)
	DeleteItem(ctx context.Context, id int64) error
}

// Ensure Client implements ItemService at compile time.
var _ ItemService = (*Client)(nil)

const itemsPath = "/items"

// ListItems retrieves every item in server order.
func (c *Client) ListItems(ctx context.Context) ([]Item, error) {
	var items []Item
	if err := c.Send(ctx, http.MethodGet, itemsPath, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetItem retrieves one item.
func (c *Client) GetItem(ctx context.Context, id int64) (Item, error) {
	var item Item
	if err := c.Send(ctx, http.MethodGet, itemPath(id), nil, &item); err != nil {
		return Item{}, err
	}
	return item, nil
}

// CreateItem submits dto and returns the stored representation.
func (c *Client) CreateItem(ctx context.Context, dto CreateItemDTO) (Item, error) {
	var item Item
	if err := c.Send(ctx, http.MethodPost, itemsPath, dto, &item); err != nil {
		return Item{}, err
	}
	return item, nil
}

// UpdateItem submits dto for item id and returns the stored representation.
func (c *Client) UpdateItem(ctx context.Context, id int64, dto UpdateItemDTO) (Item, error) {
	var item Item
	if err := c.Send(ctx, http.MethodPut, itemPath(id), dto, &item); err != nil {
		return Item{}, err
	}
	return item, nil
}

// DeleteItem removes item id. The response body is ignored.
func (c *Client) DeleteItem(ctx context.Context, id int64) error {
	return c.Send(ctx, http.MethodDelete, itemPath(id), nil, nil)
}

// Health queries /health.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	if err := c.Send(ctx, http.MethodGet, "/health", nil, &h); err != nil {
		return Health{}, err
	}
	return h, nil
}

func itemPath(id int64) string {
	return itemsPath + "/" + strconv.FormatInt(id, 10)
}
