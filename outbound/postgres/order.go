package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/walshy828/dodgeball-sale/common/constant"
	"github.com/walshy828/dodgeball-sale/model"
)

const (
	sqlLockCounter    = `SELECT value FROM counter FOR UPDATE`
	sqlAdvanceCounter = `UPDATE counter SET value = $1`

	sqlInsertOrder = `INSERT INTO orders (id, total, payment_type, status, created_at) VALUES ($1, $2, $3, $4, $5)`

	sqlInsertOrderItem = `INSERT INTO order_items (order_id, name, quantity, line_total) VALUES ($1, $2, $3, $4)`

	sqlListOrders = `SELECT o.id, o.total, o.payment_type, o.status, o.created_at, oi.name, oi.quantity, oi.line_total
FROM orders o
LEFT JOIN order_items oi ON oi.order_id = o.id
ORDER BY o.created_at DESC, o.id::bigint DESC, oi.id ASC`
)

// SubmitOrder reserves the next counter value and writes the order header plus
// its items inside one transaction. The row lock on counter is what makes
// concurrent submissions come out with distinct, gapless ids; any failure
// rolls the whole unit back, counter included.
func (s *Store) SubmitOrder(ctx context.Context, req model.SubmitOrderRequest) (model.Order, error) {
	tx, err := s.Db.Begin(ctx)
	if err != nil {
		return model.Order{}, fmt.Errorf("begin submit order: %w", err)
	}
	defer tx.Rollback(ctx)

	var current int64
	if err := tx.QueryRow(ctx, sqlLockCounter).Scan(&current); err != nil {
		return model.Order{}, fmt.Errorf("lock counter: %w", err)
	}

	next := current + 1
	if _, err := tx.Exec(ctx, sqlAdvanceCounter, next); err != nil {
		return model.Order{}, fmt.Errorf("advance counter: %w", err)
	}

	order := model.Order{
		ID:          fmt.Sprintf(constant.OrderIDFormat, next),
		TotalAmount: req.TotalAmount,
		PaymentType: req.PaymentType,
		Status:      model.DeriveOrderStatus(req.PaymentType, s.DeferredPaymentType),
		CreatedAt:   s.TimeNow(),
		Items:       make([]model.OrderItem, 0, len(req.Items)),
	}

	createdAt := pgtype.Timestamp{Time: order.CreatedAt, Valid: true}
	if _, err := tx.Exec(ctx, sqlInsertOrder, order.ID, order.TotalAmount, order.PaymentType, order.Status, createdAt); err != nil {
		return model.Order{}, fmt.Errorf("insert order %s: %w", order.ID, err)
	}

	for _, it := range req.Items {
		// line totals are recomputed here, never trusted from the client
		lineTotal := int64(it.Quantity) * it.UnitPrice

		if _, err := tx.Exec(ctx, sqlInsertOrderItem, order.ID, it.Name, it.Quantity, lineTotal); err != nil {
			return model.Order{}, fmt.Errorf("insert order item %q: %w", it.Name, err)
		}

		order.Items = append(order.Items, model.OrderItem{
			Name:      it.Name,
			Quantity:  it.Quantity,
			LineTotal: lineTotal,
		})
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Order{}, fmt.Errorf("commit order %s: %w", order.ID, err)
	}

	return order, nil
}

// ListOrders returns every order newest first with its items regrouped from
// the one-to-many join. Orders without items still show up, with an empty
// item list.
func (s *Store) ListOrders(ctx context.Context) ([]model.Order, error) {
	rows, err := s.Db.Query(ctx, sqlListOrders)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]model.Order, 0)
	index := make(map[string]int)

	for rows.Next() {
		var (
			id          string
			total       int64
			paymentType string
			status      string
			createdAt   pgtype.Timestamp
			itemName    pgtype.Text
			itemQty     pgtype.Int4
			itemTotal   pgtype.Int8
		)

		if err := rows.Scan(&id, &total, &paymentType, &status, &createdAt, &itemName, &itemQty, &itemTotal); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}

		pos, ok := index[id]
		if !ok {
			pos = len(orders)
			index[id] = pos
			orders = append(orders, model.Order{
				ID:          id,
				TotalAmount: total,
				PaymentType: paymentType,
				Status:      status,
				CreatedAt:   createdAt.Time,
				Items:       make([]model.OrderItem, 0, 4),
			})
		}

		if itemName.Valid {
			orders[pos].Items = append(orders[pos].Items, model.OrderItem{
				Name:      itemName.String,
				Quantity:  itemQty.Int32,
				LineTotal: itemTotal.Int64,
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, nil
}
