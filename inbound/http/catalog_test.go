package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redismock/v9"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/suite"
	"github.com/walshy828/dodgeball-sale/common/constant"
	"github.com/walshy828/dodgeball-sale/model"
	"github.com/walshy828/dodgeball-sale/outbound/postgres"
)

type CatalogHttpTestSuite struct {
	suite.Suite

	PgxMock   pgxmock.PgxPoolIface
	RedisMock redismock.ClientMock

	Mux *http.ServeMux
}

func (s *CatalogHttpTestSuite) SetupTest() {
	pool, err := pgxmock.NewPool()
	if err != nil {
		s.T().Fatalf("failed to create pgxmock pool: %v", err)
	}

	cache, redisMock := redismock.NewClientMock()

	s.PgxMock = pool
	s.RedisMock = redisMock

	s.Mux = http.NewServeMux()
	RegisterCatalogHttp(s.Mux, postgres.NewStore(pool, "Venmo"), cache, validator.New(), &AdminAuth{Required: false})
}

func (s *CatalogHttpTestSuite) TearDownTest() {
	s.NoError(s.PgxMock.ExpectationsWereMet())
	s.NoError(s.RedisMock.ExpectationsWereMet())
	s.PgxMock.Close()
}

func TestCatalogHttpTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogHttpTestSuite))
}

func (s *CatalogHttpTestSuite) TestListCacheHit() {
	items := []model.CatalogItem{
		{ID: 1, Tab: "concessions", Category: "Food", Name: "Pizza Slice", DataName: "pizza-slice", Price: 300, Color: "gray", OrderIndex: 1},
	}
	doc, err := json.Marshal(items)
	s.Require().NoError(err)

	s.RedisMock.ExpectGet(constant.CatalogItemsCacheKey).SetVal(string(doc))

	r := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	w := httptest.NewRecorder()

	s.Mux.ServeHTTP(w, r)

	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(string(doc), w.Body.String())
}

func (s *CatalogHttpTestSuite) TestListCacheMiss() {
	s.RedisMock.ExpectGet(constant.CatalogItemsCacheKey).RedisNil()

	rows := pgxmock.NewRows([]string{"id", "tab", "category", "name", "data_name", "price", "color", "order_index"}).
		AddRow(int32(1), "concessions", "Food", "Pizza Slice", "pizza-slice", int64(300), "gray", int32(1)).
		AddRow(int32(2), "raffles", "Prizes", "Gift Basket", "gift-basket", int64(100), "blue", int32(1))

	s.PgxMock.ExpectQuery(`SELECT id, tab, category, name, data_name`).WillReturnRows(rows)

	items := []model.CatalogItem{
		{ID: 1, Tab: "concessions", Category: "Food", Name: "Pizza Slice", DataName: "pizza-slice", Price: 300, Color: "gray", OrderIndex: 1},
		{ID: 2, Tab: "raffles", Category: "Prizes", Name: "Gift Basket", DataName: "gift-basket", Price: 100, Color: "blue", OrderIndex: 1},
	}
	doc, err := json.Marshal(items)
	s.Require().NoError(err)

	s.RedisMock.ExpectSet(constant.CatalogItemsCacheKey, doc, constant.CatalogItemsCacheTTL).SetVal("OK")

	r := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	w := httptest.NewRecorder()

	s.Mux.ServeHTTP(w, r)

	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(string(doc), w.Body.String())
}

func (s *CatalogHttpTestSuite) TestListStoreFailure() {
	s.RedisMock.ExpectGet(constant.CatalogItemsCacheKey).RedisNil()
	s.PgxMock.ExpectQuery(`SELECT id, tab, category, name, data_name`).
		WillReturnError(fmt.Errorf("database error"))

	r := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	w := httptest.NewRecorder()

	s.Mux.ServeHTTP(w, r)

	s.Require().Equal(http.StatusInternalServerError, w.Code)
	s.JSONEq(`{"error":"Internal Server Error"}`, w.Body.String())
}

func (s *CatalogHttpTestSuite) TestCreate() {
	s.PgxMock.ExpectQuery(`INSERT INTO catalog_items`).
		WithArgs("concessions", "Food", "Pizza Slice", "pizza-slice", int64(300), "gray", int32(0)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int32(7)))

	s.RedisMock.ExpectDel(constant.CatalogItemsCacheKey).SetVal(1)

	body := `{"tab": "concessions", "category": "Food", "name": "Pizza Slice", "dataName": "pizza-slice", "price": 300}`
	r := httptest.NewRequest(http.MethodPost, "/api/admin/items", strings.NewReader(body))
	w := httptest.NewRecorder()

	s.Mux.ServeHTTP(w, r)

	s.Require().Equal(http.StatusCreated, w.Code)
	s.Contains(w.Body.String(), `"id":7`)
	s.Contains(w.Body.String(), `"color":"gray"`)
}

func (s *CatalogHttpTestSuite) TestCreateReportsEveryViolation() {
	body := `{"tab": "other", "category": "", "name": "", "dataName": "x", "price": -1}`
	r := httptest.NewRequest(http.MethodPost, "/api/admin/items", strings.NewReader(body))
	w := httptest.NewRecorder()

	s.Mux.ServeHTTP(w, r)

	s.Require().Equal(http.StatusBadRequest, w.Code)
	s.JSONEq(`{"error":"Validation failed","data":{"Tab":"oneof","Category":"required","Name":"required","Price":"gte"}}`, w.Body.String())
}

func (s *CatalogHttpTestSuite) TestUpdate() {
	s.PgxMock.ExpectExec(`UPDATE catalog_items`).
		WithArgs(int32(7), "concessions", "Food", "Pizza Slice", "pizza-slice", int64(350), "red", int32(2)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	s.RedisMock.ExpectDel(constant.CatalogItemsCacheKey).SetVal(1)

	body := `{"tab": "concessions", "category": "Food", "name": "Pizza Slice", "dataName": "pizza-slice", "price": 350, "color": "red", "orderIndex": 2}`
	r := httptest.NewRequest(http.MethodPut, "/api/admin/items/7", strings.NewReader(body))
	w := httptest.NewRecorder()

	s.Mux.ServeHTTP(w, r)

	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"price":350`)
}

func (s *CatalogHttpTestSuite) TestUpdateNotFound() {
	s.PgxMock.ExpectExec(`UPDATE catalog_items`).
		WithArgs(int32(99), "concessions", "Food", "Pizza Slice", "pizza-slice", int64(350), "gray", int32(0)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	body := `{"tab": "concessions", "category": "Food", "name": "Pizza Slice", "dataName": "pizza-slice", "price": 350}`
	r := httptest.NewRequest(http.MethodPut, "/api/admin/items/99", strings.NewReader(body))
	w := httptest.NewRecorder()

	s.Mux.ServeHTTP(w, r)

	s.Require().Equal(http.StatusNotFound, w.Code)
	s.JSONEq(`{"error":"Not found"}`, w.Body.String())
}

func (s *CatalogHttpTestSuite) TestDelete() {
	s.PgxMock.ExpectExec(`DELETE FROM catalog_items`).
		WithArgs(int32(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	s.RedisMock.ExpectDel(constant.CatalogItemsCacheKey).SetVal(1)

	r := httptest.NewRequest(http.MethodDelete, "/api/admin/items/7", nil)
	w := httptest.NewRecorder()

	s.Mux.ServeHTTP(w, r)

	s.Equal(http.StatusNoContent, w.Code)
}

func (s *CatalogHttpTestSuite) TestDeleteNotFound() {
	s.PgxMock.ExpectExec(`DELETE FROM catalog_items`).
		WithArgs(int32(99)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	r := httptest.NewRequest(http.MethodDelete, "/api/admin/items/99", nil)
	w := httptest.NewRecorder()

	s.Mux.ServeHTTP(w, r)

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *CatalogHttpTestSuite) TestBadItemID() {
	r := httptest.NewRequest(http.MethodDelete, "/api/admin/items/abc", nil)
	w := httptest.NewRecorder()

	s.Mux.ServeHTTP(w, r)

	s.Require().Equal(http.StatusBadRequest, w.Code)
	s.JSONEq(`{"error":"Invalid item id"}`, w.Body.String())
}
