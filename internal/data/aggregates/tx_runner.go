package aggregates

import (
	"context"

	"gorm.io/gorm"

	domainagg "github.com/yungbote/honeyshop-backend/internal/domain/aggregates"
	"github.com/yungbote/honeyshop-backend/internal/platform/dbctx"
)

// TxRunner provides a shared transaction boundary primitive for aggregate writes.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

type gormTxRunner struct {
	db *gorm.DB
}

// NewGormTxRunner returns a transaction runner backed by GORM transactions.
func NewGormTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db: db}
}

func (r *gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if r == nil || r.db == nil {
		return domainagg.NewError(domainagg.CodeInternal, "aggregate.tx", "transaction runner has nil db", nil)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}

// MongoTransactor is the slice of the document store client the runner needs.
type MongoTransactor interface {
	SupportsTransactions() bool
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type mongoTxRunner struct {
	client MongoTransactor
}

// NewMongoTxRunner runs fn in a document store transaction when the client
// supports them. Otherwise fn runs directly and each write stands alone.
func NewMongoTxRunner(client MongoTransactor) TxRunner {
	return &mongoTxRunner{client: client}
}

func (r *mongoTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if r == nil || r.client == nil || !r.client.SupportsTransactions() {
		return fn(dbctx.Context{Ctx: ctx})
	}
	return r.client.WithTransaction(ctx, func(sc context.Context) error {
		return fn(dbctx.Context{Ctx: sc})
	})
}

type directRunner struct{}

// NewDirectRunner runs fn without a transaction, for aggregates whose writes
// are single guarded document updates.
func NewDirectRunner() TxRunner { return directRunner{} }

func (directRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(dbctx.Context{Ctx: ctx})
}
