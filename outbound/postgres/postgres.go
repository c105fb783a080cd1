// Package postgres is the relational backend for the order ledger, catalog
// and admin credential. Order submission serializes on the counter row with
// SELECT ... FOR UPDATE so concurrent submissions are linearized and ids come
// out gapless.
package postgres

import (
	"time"

	"github.com/walshy828/dodgeball-sale/common/contract"
)

type Store struct {
	Db contract.DbConn

	DeferredPaymentType string
	TimeNow             func() time.Time
}

func NewStore(db contract.DbConn, deferredPaymentType string) *Store {
	return &Store{
		Db:                  db,
		DeferredPaymentType: deferredPaymentType,
		TimeNow:             time.Now,
	}
}
