package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/walshy828/dodgeball-sale/common/constant"
	"github.com/walshy828/dodgeball-sale/model"
)

// SubmitOrder reserves the next id with a WATCH/CAS loop. If another
// submission advances the counter between our read and EXEC the transaction
// aborts without writing anything, and we retry from the fresh counter value,
// so ids stay gapless and a failed submission never consumes one.
func (s *Store) SubmitOrder(ctx context.Context, req model.SubmitOrderRequest) (model.Order, error) {
	var order model.Order

	attempt := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, counterKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("read counter: %w", err)
		}

		next := current + 1

		order = model.Order{
			ID:          fmt.Sprintf(constant.OrderIDFormat, next),
			TotalAmount: req.TotalAmount,
			PaymentType: req.PaymentType,
			Status:      model.DeriveOrderStatus(req.PaymentType, s.DeferredPaymentType),
			CreatedAt:   s.TimeNow(),
			Items:       make([]model.OrderItem, 0, len(req.Items)),
		}

		for _, it := range req.Items {
			order.Items = append(order.Items, model.OrderItem{
				Name:      it.Name,
				Quantity:  it.Quantity,
				LineTotal: int64(it.Quantity) * it.UnitPrice,
			})
		}

		doc, err := json.Marshal(order)
		if err != nil {
			return fmt.Errorf("marshal order %s: %w", order.ID, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, counterKey, next, 0)
			pipe.Set(ctx, fmt.Sprintf(orderKeyFmt, order.ID), doc, 0)
			pipe.LPush(ctx, orderIndexKey, order.ID)
			return nil
		})

		return err
	}

	for i := 0; i < submitRetries; i++ {
		err := s.Client.Watch(ctx, attempt, counterKey)
		if err == nil {
			return order, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return model.Order{}, fmt.Errorf("submit order: %w", err)
	}

	return model.Order{}, fmt.Errorf("submit order: counter contention after %d attempts", submitRetries)
}

// ListOrders walks the index list, which is already newest first.
func (s *Store) ListOrders(ctx context.Context) ([]model.Order, error) {
	ids, err := s.Client.LRange(ctx, orderIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list order ids: %w", err)
	}

	orders := make([]model.Order, 0, len(ids))
	if len(ids) == 0 {
		return orders, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, fmt.Sprintf(orderKeyFmt, id))
	}

	docs, err := s.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load order docs: %w", err)
	}

	for i, doc := range docs {
		raw, ok := doc.(string)
		if !ok {
			return nil, fmt.Errorf("order doc %s missing", ids[i])
		}

		var order model.Order
		if err := json.Unmarshal([]byte(raw), &order); err != nil {
			return nil, fmt.Errorf("unmarshal order %s: %w", ids[i], err)
		}

		if order.Items == nil {
			order.Items = make([]model.OrderItem, 0)
		}

		orders = append(orders, order)
	}

	return orders, nil
}
