package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/walshy828/dodgeball-sale/common"
	"github.com/walshy828/dodgeball-sale/common/constant"
	"github.com/walshy828/dodgeball-sale/common/contract"
	"github.com/walshy828/dodgeball-sale/common/errs"
	"github.com/walshy828/dodgeball-sale/common/otel"
	"github.com/walshy828/dodgeball-sale/model"
)

type CatalogHttp struct {
	Catalog  contract.CatalogStore
	Cache    *redis.Client
	Validate *validator.Validate
}

func RegisterCatalogHttp(
	mux *http.ServeMux,
	catalog contract.CatalogStore,
	cache *redis.Client,
	validate *validator.Validate,
	adminAuth *AdminAuth,
) *CatalogHttp {
	in := &CatalogHttp{
		Catalog:  catalog,
		Cache:    cache,
		Validate: validate,
	}

	mux.HandleFunc("GET /api/items", in.list)
	mux.HandleFunc("POST /api/admin/items", adminAuth.Middleware(in.create))
	mux.HandleFunc("PUT /api/admin/items/{id}", adminAuth.Middleware(in.update))
	mux.HandleFunc("DELETE /api/admin/items/{id}", adminAuth.Middleware(in.delete))

	return in
}

func (in *CatalogHttp) list(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "CatalogHttp.list")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	cached, err := in.Cache.Get(ctx, constant.CatalogItemsCacheKey).Result()
	if err == nil {
		var items []model.CatalogItem
		if err := json.Unmarshal([]byte(cached), &items); err == nil {
			writeJSONResponse(w, http.StatusOK, items)
			return
		}
		// fall through to the store on a corrupt cache entry
	} else if !errors.Is(err, redis.Nil) {
		slog.ErrorContext(ctx, "failed to read catalog cache", traceIdAttr, slog.Any(constant.LogFieldErr, err))
	}

	items, err := in.Catalog.ListItems(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list catalog items", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(span, err)
		writeErrorResponse(w, err)
		return
	}

	if doc, err := json.Marshal(items); err == nil {
		cacheErr := in.Cache.Set(ctx, constant.CatalogItemsCacheKey, doc, constant.CatalogItemsCacheTTL).Err()
		if cacheErr != nil {
			slog.ErrorContext(ctx, "failed to write catalog cache", traceIdAttr, slog.Any(constant.LogFieldErr, cacheErr))
		}
	}

	writeJSONResponse(w, http.StatusOK, items)
}

func (in *CatalogHttp) create(w http.ResponseWriter, r *http.Request) {
	req, err := in.decodeItemRequest(r)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "CatalogHttp.create")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	slog.InfoContext(ctx, "create catalog item receive request", slog.Any(constant.LogFieldPayload, req), traceIdAttr)

	item, err := in.Catalog.CreateItem(ctx, req)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create catalog item", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(span, err)
		writeErrorResponse(w, err)
		return
	}

	in.invalidateCache(ctx)

	writeJSONResponse(w, http.StatusCreated, item)
}

func (in *CatalogHttp) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseItemID(r)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	req, err := in.decodeItemRequest(r)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "CatalogHttp.update")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	slog.InfoContext(ctx, "update catalog item receive request", slog.Any(constant.LogFieldPayload, req), traceIdAttr)

	item, err := in.Catalog.UpdateItem(ctx, id, req)
	if err != nil {
		slog.ErrorContext(ctx, "failed to update catalog item", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(span, err)
		writeErrorResponse(w, err)
		return
	}

	in.invalidateCache(ctx)

	writeJSONResponse(w, http.StatusOK, item)
}

func (in *CatalogHttp) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseItemID(r)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "CatalogHttp.delete")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	if err := in.Catalog.DeleteItem(ctx, id); err != nil {
		slog.ErrorContext(ctx, "failed to delete catalog item", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(span, err)
		writeErrorResponse(w, err)
		return
	}

	in.invalidateCache(ctx)

	writeJSONResponse(w, http.StatusNoContent, nil)
}

func (in *CatalogHttp) decodeItemRequest(r *http.Request) (model.CatalogItemRequest, error) {
	var req model.CatalogItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"}
	}

	req.Tab = strings.TrimSpace(req.Tab)
	req.Category = strings.TrimSpace(req.Category)
	req.Name = strings.TrimSpace(req.Name)
	req.DataName = strings.TrimSpace(req.DataName)
	req.ApplyDefaults()

	if err := in.Validate.Struct(req); err != nil {
		return req, err
	}

	return req, nil
}

func (in *CatalogHttp) invalidateCache(ctx context.Context) {
	if err := in.Cache.Del(ctx, constant.CatalogItemsCacheKey).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to invalidate catalog cache", slog.Any(constant.LogFieldErr, err))
	}
}

func parseItemID(r *http.Request) (int32, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 32)
	if err != nil {
		return 0, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid item id"}
	}
	return int32(id), nil
}
