package event

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/walshy828/dodgeball-sale/common"
	"github.com/walshy828/dodgeball-sale/common/constant"
	"github.com/walshy828/dodgeball-sale/common/otel"
	"github.com/walshy828/dodgeball-sale/model"
	"golang.org/x/text/message"
)

type StatsEvent struct {
	Cache                *redis.Client
	UsdCurrencyFormatter *message.Printer

	Timeout time.Duration
}

// OrderCreatedHandler rolls a committed order into the redis sales counters.
// A malformed payload is dropped rather than redelivered forever.
func (in StatsEvent) OrderCreatedHandler(ctx context.Context, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, in.Timeout)
	defer cancel()

	var req model.OrderCreatedEventMessage
	if err := json.Unmarshal(msg, &req); err != nil {
		slog.WarnContext(ctx, "order created event unmarshal error", slog.Any(constant.LogFieldErr, err))
		return nil
	}

	ctx, span := otel.Tracer.Start(ctx, "StatsEvent.orderCreated")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	pipe := in.Cache.TxPipeline()
	pipe.Incr(ctx, constant.StatsOrderCountKey)
	pipe.IncrBy(ctx, constant.StatsRevenueKey, req.TotalAmount)
	if req.Status == model.OrderStatusPending {
		pipe.Incr(ctx, constant.StatsPendingCountKey)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to update sales counters", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(span, err)
		return err
	}

	slog.DebugContext(ctx, "sales counters updated",
		traceIdAttr,
		slog.String("order_id", req.OrderID),
		slog.String("amount", in.formatUSD(req.TotalAmount)),
	)

	return nil
}

func (in StatsEvent) formatUSD(cents int64) string {
	return in.UsdCurrencyFormatter.Sprintf("$%.2f", float64(cents)/100)
}
