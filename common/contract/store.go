package contract

import (
	"context"

	"github.com/walshy828/dodgeball-sale/model"
)

// OrderStore is the order ledger plus its id sequencer. SubmitOrder reserves
// the next order id and writes the header and items as one atomic unit; a
// failed submission never consumes an id. ListOrders returns orders newest
// first, items in insertion order.
type OrderStore interface {
	SubmitOrder(ctx context.Context, req model.SubmitOrderRequest) (model.Order, error)
	ListOrders(ctx context.Context) ([]model.Order, error)
}

// CatalogStore is plain last-write-wins CRUD over sellable items, ordered by
// (tab, category, order index) on reads.
type CatalogStore interface {
	ListItems(ctx context.Context) ([]model.CatalogItem, error)
	CreateItem(ctx context.Context, req model.CatalogItemRequest) (model.CatalogItem, error)
	UpdateItem(ctx context.Context, id int32, req model.CatalogItemRequest) (model.CatalogItem, error)
	DeleteItem(ctx context.Context, id int32) error
}

// CredentialStore holds the single admin credential. LoadCredential returns
// errs.ErrNotFound while no credential has been seeded.
type CredentialStore interface {
	LoadCredential(ctx context.Context) (model.AdminCredential, error)
	SaveCredential(ctx context.Context, cred model.AdminCredential) error
}
