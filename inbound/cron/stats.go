package cron

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"github.com/walshy828/dodgeball-sale/common"
	"github.com/walshy828/dodgeball-sale/common/constant"
	"github.com/walshy828/dodgeball-sale/common/contract"
	"github.com/walshy828/dodgeball-sale/common/vars"
	"github.com/walshy828/dodgeball-sale/model"
	"golang.org/x/text/message"
)

type StatsCron struct {
	Cfg                  *viper.Viper
	Cache                *redis.Client
	UsdCurrencyFormatter *message.Printer
}

func (in StatsCron) Start(ctx context.Context) {
	refreshTicker := time.NewTicker(in.Cfg.GetDuration("cron.stats.refresh.interval"))
	defer refreshTicker.Stop()

	in.refresh(ctx)

	slog.Info("stats cron started")

	for {
		select {
		case <-refreshTicker.C:
			in.refresh(ctx)
		case <-ctx.Done():
			slog.Info("stats cron stopped")
			return
		}
	}
}

func (in StatsCron) refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, in.Cfg.GetDuration("cron.stats.refresh.timeout"))
	defer cancel()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	values, err := in.Cache.MGet(ctx,
		constant.StatsOrderCountKey,
		constant.StatsPendingCountKey,
		constant.StatsRevenueKey,
	).Result()
	if err != nil {
		slog.ErrorContext(ctx, "failed to get sales counters from cache", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		return
	}

	counters := make([]int64, len(values))
	for i, value := range values {
		if value == nil {
			continue
		}

		n, err := strconv.ParseInt(value.(string), 10, 64)
		if err != nil {
			slog.ErrorContext(ctx, "failed to parse sales counter", traceIdAttr, slog.Any(constant.LogFieldErr, err))
			return
		}
		counters[i] = n
	}

	vars.SetStats(model.StatsResponse{
		Orders:        counters[0],
		PendingOrders: counters[1],
		RevenueCents:  counters[2],
		Revenue:       in.UsdCurrencyFormatter.Sprintf("$%.2f", float64(counters[2])/100),
	})

	slog.DebugContext(ctx, "sales stats refreshed", traceIdAttr)
}

// InitCounters rebuilds the redis counters from the ledger, so stats survive
// a cache flush. SetNX keeps an already-live counter authoritative.
func (in StatsCron) InitCounters(ctx context.Context, orders contract.OrderStore) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	all, err := orders.ListOrders(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list orders", slog.Any(constant.LogFieldErr, err))
		return fmt.Errorf("list orders: %w", err)
	}

	var count, pending, revenue int64
	for _, order := range all {
		count++
		revenue += order.TotalAmount
		if order.Status == model.OrderStatusPending {
			pending++
		}
	}

	pipe := in.Cache.TxPipeline()
	pipe.SetNX(ctx, constant.StatsOrderCountKey, count, 0)
	pipe.SetNX(ctx, constant.StatsPendingCountKey, pending, 0)
	pipe.SetNX(ctx, constant.StatsRevenueKey, revenue, 0)

	if _, err := pipe.Exec(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to initialize sales counters in cache", slog.Any(constant.LogFieldErr, err))
		return fmt.Errorf("execute pipeline: %w", err)
	}

	slog.InfoContext(ctx, "sales counters initialized")
	return nil
}
