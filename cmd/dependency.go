package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"github.com/walshy828/dodgeball-sale/common/constant"
	"github.com/walshy828/dodgeball-sale/common/contract"
	"github.com/walshy828/dodgeball-sale/common/otel"
	"github.com/walshy828/dodgeball-sale/outbound/postgres"
	"github.com/walshy828/dodgeball-sale/outbound/redisstore"
	sdkotel "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func newCfg(name string) *viper.Viper {
	config := viper.New()

	config.SetConfigName(name)
	config.SetConfigType("yaml")
	config.AddConfigPath(".")

	err := config.ReadInConfig()
	if err != nil {
		log.Fatalln(err)
	}

	err = os.Setenv("TZ", config.GetString("server.timezone"))
	if err != nil {
		log.Fatalln(err)
	}

	return config
}

func newDb(cfg *viper.Viper) *pgxpool.Pool {
	username := cfg.GetString("db.user")
	password := cfg.GetString("db.password")
	host := cfg.GetString("db.host")
	port := cfg.GetInt("db.port")
	database := cfg.GetString("db.name")
	maxConn := cfg.GetInt("db.pool.max")
	minConn := cfg.GetInt("db.pool.min")
	timezone := cfg.GetString("server.timezone")

	connString := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?timezone=%s",
		username, password, host, port, database, timezone)

	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		log.Fatalln(err)
	}

	config.MaxConns = int32(maxConn)
	config.MinConns = int32(minConn)
	config.ConnConfig.Tracer = &otel.PgxCustomTracer{}

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		log.Fatalln(err)
	}

	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatalln(err)
	}

	return pool
}

func newRedis(cfg *viper.Viper) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.GetString("redis.addr"),
		Password: cfg.GetString("redis.password"),
		DB:       0,
	})

	err := rdb.Ping(context.Background()).Err()
	if err != nil {
		log.Fatalln(err)
	}

	return rdb
}

func newNats(viper *viper.Viper) *nats.Conn {
	conn, err := nats.Connect(viper.GetString("nats.addr"))
	if err != nil {
		log.Fatalln(err)
	}

	return conn
}

func newJs(conn *nats.Conn) jetstream.JetStream {
	js, err := jetstream.New(conn)
	if err != nil {
		log.Fatalln(err)
	}

	return js
}

// storeSet bundles the three store contracts so either backend can satisfy
// them from one concrete store.
type storeSet struct {
	Orders      contract.OrderStore
	Catalog     contract.CatalogStore
	Credentials contract.CredentialStore
}

// newStore picks the backend from config. Both backends implement identical
// contracts; everything above this point is backend-agnostic.
func newStore(cfg *viper.Viper, db *pgxpool.Pool, cache *redis.Client) storeSet {
	deferred := cfg.GetString("order.deferred_payment_type")
	if deferred == "" {
		deferred = constant.DefaultDeferredPaymentType
	}

	switch backend := cfg.GetString("store.backend"); backend {
	case "redis":
		st := redisstore.NewStore(cache, deferred)
		return storeSet{Orders: st, Catalog: st, Credentials: st}
	case "", "postgres":
		st := postgres.NewStore(db, deferred)
		return storeSet{Orders: st, Catalog: st, Credentials: st}
	default:
		log.Fatalf("unknown store backend %q", backend)
		return storeSet{}
	}
}

func newTracerProvider(ctx context.Context, cfg *viper.Viper) *sdktrace.TracerProvider {
	conn, err := grpc.NewClient(cfg.GetString("otel.collector.addr"),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		log.Fatalln(err)
	}

	exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		log.Fatalln(err)
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	sdkotel.SetTracerProvider(tp)

	return tp
}
