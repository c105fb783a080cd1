package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"runtime/pprof"
	"time"

	"github.com/go-playground/validator/v10"
	commonJetstream "github.com/walshy828/dodgeball-sale/common/jetstream"
	"github.com/walshy828/dodgeball-sale/common/session"
	"github.com/walshy828/dodgeball-sale/common/throttle"
	inboundCron "github.com/walshy828/dodgeball-sale/inbound/cron"
	inboundHttp "github.com/walshy828/dodgeball-sale/inbound/http"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func runHttpServerCmd(ctx context.Context) {
	cfg := newCfg("env")

	if cfg.GetString("env") == "dev" {
		cpu, err := os.Create("http-cpu.prof")
		if err != nil {
			log.Fatalf("could not create CPU profile: %v", err)
		}
		defer cpu.Close()

		err = pprof.StartCPUProfile(cpu)
		if err != nil {
			log.Fatalf("could not start CPU profile: %v", err)
		}
		defer pprof.StopCPUProfile()

		mem, err := os.Create("http-mem.prof")
		if err != nil {
			log.Fatalf("could not create memory profile: %v", err)
		}
		defer mem.Close()

		err = pprof.WriteHeapProfile(mem)
		if err != nil {
			log.Fatalf("could not write memory profile: %v", err)
		}
		defer mem.Close()
	}

	tp := newTracerProvider(ctx, cfg)
	defer tp.Shutdown(context.Background())

	validate := validator.New()

	db := newDb(cfg)
	defer db.Close()

	cacheClient := newRedis(cfg)
	defer cacheClient.Close()

	natsConn := newNats(cfg)
	defer natsConn.Close()

	js := newJs(natsConn)
	commonJetstream.CreateQueueStream(ctx, js)

	stores := newStore(cfg, db, cacheClient)

	sessions := session.NewManager(cfg.GetDuration("admin.session_ttl"))
	limiter := throttle.NewLimiter(
		cfg.GetInt("admin.login.max_attempts"),
		cfg.GetDuration("admin.login.window"),
		cfg.GetDuration("admin.login.lockout"),
	)

	adminAuth := &inboundHttp.AdminAuth{
		Sessions:    sessions,
		Credentials: stores.Credentials,
		Required:    cfg.GetBool("admin.auth_required"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		slog.DebugContext(r.Context(), "health check")
		w.WriteHeader(http.StatusOK)
	})

	timeoutMiddleware := inboundHttp.TimeoutMiddleware(20 * time.Second)

	inboundHttp.RegisterOrderHttp(mux, stores.Orders, js, validate, adminAuth)
	inboundHttp.RegisterCatalogHttp(mux, stores.Catalog, cacheClient, validate, adminAuth)
	inboundHttp.RegisterAdminHttp(mux, stores.Credentials, sessions, limiter, validate, cfg.GetBool("admin.cookie_secure"))
	inboundHttp.RegisterStatsHttp(mux, adminAuth)

	statsCron := inboundCron.StatsCron{
		Cfg:                  cfg,
		Cache:                cacheClient,
		UsdCurrencyFormatter: message.NewPrinter(language.AmericanEnglish),
	}

	err := statsCron.InitCounters(ctx, stores.Orders)
	if err != nil {
		log.Fatalln("unable to init sales counters", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.GetInt("server.port")),
		Handler:           timeoutMiddleware(inboundHttp.CorsMiddleware(mux)),
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalln("unable to start server", err)
		}
	}()

	slog.Info("http server started")

	go func() {
		statsCron.Start(ctx)
	}()

	<-ctx.Done()

	ctxShutDown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutDown); err != nil {
		log.Fatalln("unable to shutdown server", err)
	}

	slog.Info("http server stopped")
}
