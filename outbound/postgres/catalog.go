package postgres

import (
	"context"
	"fmt"

	"github.com/walshy828/dodgeball-sale/common/errs"
	"github.com/walshy828/dodgeball-sale/model"
)

const (
	sqlListCatalogItems = `SELECT id, tab, category, name, data_name, price, color, order_index
FROM catalog_items
ORDER BY tab ASC, category ASC, order_index ASC`

	sqlInsertCatalogItem = `INSERT INTO catalog_items (tab, category, name, data_name, price, color, order_index)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`

	sqlUpdateCatalogItem = `UPDATE catalog_items
SET tab = $2, category = $3, name = $4, data_name = $5, price = $6, color = $7, order_index = $8
WHERE id = $1`

	sqlDeleteCatalogItem = `DELETE FROM catalog_items WHERE id = $1`
)

func (s *Store) ListItems(ctx context.Context) ([]model.CatalogItem, error) {
	rows, err := s.Db.Query(ctx, sqlListCatalogItems)
	if err != nil {
		return nil, fmt.Errorf("list catalog items: %w", err)
	}
	defer rows.Close()

	items := make([]model.CatalogItem, 0)
	for rows.Next() {
		var it model.CatalogItem
		if err := rows.Scan(&it.ID, &it.Tab, &it.Category, &it.Name, &it.DataName, &it.Price, &it.Color, &it.OrderIndex); err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog items: %w", err)
	}

	return items, nil
}

func (s *Store) CreateItem(ctx context.Context, req model.CatalogItemRequest) (model.CatalogItem, error) {
	var id int32
	err := s.Db.QueryRow(ctx, sqlInsertCatalogItem,
		req.Tab, req.Category, req.Name, req.DataName, req.Price, req.Color, req.OrderIndex,
	).Scan(&id)
	if err != nil {
		return model.CatalogItem{}, fmt.Errorf("insert catalog item: %w", err)
	}

	return itemFromRequest(id, req), nil
}

func (s *Store) UpdateItem(ctx context.Context, id int32, req model.CatalogItemRequest) (model.CatalogItem, error) {
	tag, err := s.Db.Exec(ctx, sqlUpdateCatalogItem,
		id, req.Tab, req.Category, req.Name, req.DataName, req.Price, req.Color, req.OrderIndex,
	)
	if err != nil {
		return model.CatalogItem{}, fmt.Errorf("update catalog item %d: %w", id, err)
	}

	if tag.RowsAffected() == 0 {
		return model.CatalogItem{}, fmt.Errorf("catalog item %d: %w", id, errs.ErrNotFound)
	}

	return itemFromRequest(id, req), nil
}

func (s *Store) DeleteItem(ctx context.Context, id int32) error {
	tag, err := s.Db.Exec(ctx, sqlDeleteCatalogItem, id)
	if err != nil {
		return fmt.Errorf("delete catalog item %d: %w", id, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("catalog item %d: %w", id, errs.ErrNotFound)
	}

	return nil
}

func itemFromRequest(id int32, req model.CatalogItemRequest) model.CatalogItem {
	return model.CatalogItem{
		ID:         id,
		Tab:        req.Tab,
		Category:   req.Category,
		Name:       req.Name,
		DataName:   req.DataName,
		Price:      req.Price,
		Color:      req.Color,
		OrderIndex: req.OrderIndex,
	}
}
