// Package redisstore is the document backend. It implements the same store
// contracts as outbound/postgres on plain redis structures: orders as JSON
// documents behind a list index, the id counter guarded by a WATCH/CAS loop
// instead of a row lock. The no-gap/no-duplicate id guarantee holds because
// the counter read, the counter write and the order write all sit inside one
// MULTI/EXEC that aborts when the watched counter moved.
package redisstore

import (
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	counterKey    = "orders:counter"
	orderIndexKey = "orders:index"
	orderKeyFmt   = "order:%s"

	catalogNextIDKey = "catalog:next_id"
	catalogIndexKey  = "catalog:ids"
	catalogKeyFmt    = "catalog:item:%d"

	credentialKey = "admin:credential"
)

// submitRetries bounds the CAS loop under contention before the submission is
// surfaced as a retryable infrastructure error.
const submitRetries = 10

type Store struct {
	Client *redis.Client

	DeferredPaymentType string
	TimeNow             func() time.Time
}

func NewStore(client *redis.Client, deferredPaymentType string) *Store {
	return &Store{
		Client:              client,
		DeferredPaymentType: deferredPaymentType,
		TimeNow:             time.Now,
	}
}
