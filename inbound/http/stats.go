package http

import (
	"net/http"

	"github.com/walshy828/dodgeball-sale/common/vars"
)

type StatsHttp struct{}

func RegisterStatsHttp(mux *http.ServeMux, adminAuth *AdminAuth) *StatsHttp {
	in := &StatsHttp{}

	mux.HandleFunc("GET /api/stats", adminAuth.Middleware(in.get))

	return in
}

func (in *StatsHttp) get(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, vars.GetStats())
}
