package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/walshy828/dodgeball-sale/common"
	"github.com/walshy828/dodgeball-sale/common/constant"
	"github.com/walshy828/dodgeball-sale/common/contract"
	"github.com/walshy828/dodgeball-sale/common/errs"
	"github.com/walshy828/dodgeball-sale/common/otel"
	"github.com/walshy828/dodgeball-sale/model"
)

type OrderHttp struct {
	Orders    contract.OrderStore
	Publisher jetstream.Publisher
	Validate  *validator.Validate
}

func RegisterOrderHttp(
	mux *http.ServeMux,
	orders contract.OrderStore,
	publisher jetstream.Publisher,
	validate *validator.Validate,
	adminAuth *AdminAuth,
) *OrderHttp {
	in := &OrderHttp{
		Orders:    orders,
		Publisher: publisher,
		Validate:  validate,
	}

	mux.HandleFunc("POST /api/orders", in.submit)
	mux.HandleFunc("GET /api/orders", adminAuth.Middleware(in.list))

	return in
}

func (in *OrderHttp) submit(w http.ResponseWriter, r *http.Request) {
	var req model.SubmitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}

	req.PaymentType = strings.TrimSpace(req.PaymentType)
	for i := range req.Items {
		req.Items[i].Name = strings.TrimSpace(req.Items[i].Name)
	}

	if err := in.Validate.Struct(req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "OrderHttp.submit")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	slog.InfoContext(ctx, "submit order receive request", slog.Any(constant.LogFieldPayload, req), traceIdAttr)

	order, err := in.Orders.SubmitOrder(ctx, req)
	if err != nil {
		slog.ErrorContext(ctx, "failed to submit order", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(span, err)
		writeErrorResponse(w, err)
		return
	}

	// the order is committed at this point; a publish failure only delays
	// the stats counters, it must not fail the submission
	publishErr := common.PublishMessage(ctx, in.Publisher, constant.SubjectOrderCreated, model.OrderCreatedEventMessage{
		OrderID:     order.ID,
		TotalAmount: order.TotalAmount,
		PaymentType: order.PaymentType,
		Status:      order.Status,
		CreatedAt:   order.CreatedAt.Format(time.RFC3339),
	})
	if publishErr != nil {
		slog.ErrorContext(ctx, "failed to publish order created message", traceIdAttr, slog.Any(constant.LogFieldErr, publishErr))
	}

	slog.InfoContext(ctx, "submit order success", traceIdAttr, slog.Any(constant.LogFieldResponse, order.ID))

	writeJSONResponse(w, http.StatusOK, order)
}

func (in *OrderHttp) list(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "OrderHttp.list")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	orders, err := in.Orders.ListOrders(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list orders", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(span, err)
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, orders)
}
