package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/suite"
	"github.com/walshy828/dodgeball-sale/common/password"
	"github.com/walshy828/dodgeball-sale/common/session"
	"github.com/walshy828/dodgeball-sale/common/throttle"
	"github.com/walshy828/dodgeball-sale/model"
	"github.com/walshy828/dodgeball-sale/outbound/postgres"
)

const adminTestPassword = "hunter2"

type AdminHttpTestSuite struct {
	suite.Suite

	PgxMock  pgxmock.PgxPoolIface
	Sessions *session.Manager
	Throttle *throttle.Limiter

	Salt string
	Hash string

	Mux *http.ServeMux
}

func (s *AdminHttpTestSuite) SetupTest() {
	pool, err := pgxmock.NewPool()
	if err != nil {
		s.T().Fatalf("failed to create pgxmock pool: %v", err)
	}

	salt, hash, err := password.Derive(adminTestPassword)
	s.Require().NoError(err)

	s.PgxMock = pool
	s.Salt = salt
	s.Hash = hash
	s.Sessions = session.NewManager(30 * time.Minute)
	s.Throttle = throttle.NewLimiter(2, 15*time.Minute, 15*time.Minute)

	s.Mux = http.NewServeMux()
	RegisterAdminHttp(s.Mux, postgres.NewStore(pool, "Venmo"), s.Sessions, s.Throttle, validator.New(), false)
}

func (s *AdminHttpTestSuite) TearDownTest() {
	s.NoError(s.PgxMock.ExpectationsWereMet())
	s.PgxMock.Close()
}

func TestAdminHttpTestSuite(t *testing.T) {
	suite.Run(t, new(AdminHttpTestSuite))
}

func (s *AdminHttpTestSuite) expectCredentialLoad() {
	s.PgxMock.ExpectQuery(`SELECT salt, hash FROM admin_credential`).
		WillReturnRows(pgxmock.NewRows([]string{"salt", "hash"}).AddRow(s.Salt, s.Hash))
}

func (s *AdminHttpTestSuite) login(body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(body))
	w := httptest.NewRecorder()
	s.Mux.ServeHTTP(w, r)
	return w
}

func (s *AdminHttpTestSuite) TestLoginSuccess() {
	s.expectCredentialLoad()

	w := s.login(`{"password": "` + adminTestPassword + `"}`)

	s.Require().Equal(http.StatusOK, w.Code)

	var resp model.AdminLoginResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))
	s.True(s.Sessions.Validate(resp.Token))

	cookies := w.Result().Cookies()
	s.Require().Len(cookies, 1)
	s.Equal(adminTokenCookie, cookies[0].Name)
	s.Equal(resp.Token, cookies[0].Value)
	s.True(cookies[0].HttpOnly)
}

func (s *AdminHttpTestSuite) TestLoginWrongPassword() {
	s.expectCredentialLoad()

	w := s.login(`{"password": "letmein"}`)

	s.Require().Equal(http.StatusUnauthorized, w.Code)
	s.JSONEq(`{"error":"Unauthorized"}`, w.Body.String())
}

func (s *AdminHttpTestSuite) TestLoginMissingPassword() {
	w := s.login(`{}`)

	s.Require().Equal(http.StatusBadRequest, w.Code)
	s.JSONEq(`{"error":"Validation failed","data":{"Password":"required"}}`, w.Body.String())
}

func (s *AdminHttpTestSuite) TestLoginLockout() {
	s.expectCredentialLoad()
	s.expectCredentialLoad()

	s.Require().Equal(http.StatusUnauthorized, s.login(`{"password": "wrong"}`).Code)
	s.Require().Equal(http.StatusUnauthorized, s.login(`{"password": "wrong"}`).Code)

	// locked out now; the correct password is turned away without the
	// credential guard ever running
	w := s.login(`{"password": "` + adminTestPassword + `"}`)

	s.Require().Equal(http.StatusTooManyRequests, w.Code)
	s.JSONEq(`{"error":"Too many attempts, try again later"}`, w.Body.String())
}

func (s *AdminHttpTestSuite) TestLoginSuccessClearsFailures() {
	s.expectCredentialLoad()
	s.expectCredentialLoad()
	s.expectCredentialLoad()

	s.Require().Equal(http.StatusUnauthorized, s.login(`{"password": "wrong"}`).Code)
	s.Require().Equal(http.StatusOK, s.login(`{"password": "`+adminTestPassword+`"}`).Code)

	// the earlier failure no longer counts toward a lockout
	s.Require().Equal(http.StatusUnauthorized, s.login(`{"password": "wrong"}`).Code)
}

func (s *AdminHttpTestSuite) TestLoginUnconfiguredCredentialRejected() {
	s.PgxMock.ExpectQuery(`SELECT salt, hash FROM admin_credential`).
		WillReturnError(pgx.ErrNoRows)

	w := s.login(`{"password": "anything"}`)

	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *AdminHttpTestSuite) TestLogout() {
	token, err := s.Sessions.Issue()
	s.Require().NoError(err)

	r := httptest.NewRequest(http.MethodPost, "/api/admin/logout", nil)
	r.AddCookie(&http.Cookie{Name: adminTokenCookie, Value: token})
	w := httptest.NewRecorder()

	s.Mux.ServeHTTP(w, r)

	s.Require().Equal(http.StatusNoContent, w.Code)
	s.False(s.Sessions.Validate(token))

	cookies := w.Result().Cookies()
	s.Require().Len(cookies, 1)
	s.Equal(-1, cookies[0].MaxAge)
}

func (s *AdminHttpTestSuite) TestLogoutWithoutToken() {
	r := httptest.NewRequest(http.MethodPost, "/api/admin/logout", nil)
	w := httptest.NewRecorder()

	s.Mux.ServeHTTP(w, r)

	s.Equal(http.StatusNoContent, w.Code)
}
