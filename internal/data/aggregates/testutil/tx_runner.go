package testutil

import (
	"context"
	"sync"

	"github.com/yungbote/honeyshop-backend/internal/data/aggregates"
	"github.com/yungbote/honeyshop-backend/internal/platform/dbctx"
)

// ScriptedTxRunner stands in for a store transaction. The body always runs;
// CommitErr makes the commit fail afterwards, the way a document store
// transaction aborts on a write conflict or a lost primary. OnAbort lets a
// test undo fake writes the real store would have rolled back.
type ScriptedTxRunner struct {
	mu sync.Mutex

	CommitErr error
	OnAbort   func()

	Begins  int
	Commits int
	Aborts  int
}

var _ aggregates.TxRunner = (*ScriptedTxRunner)(nil)

func (r *ScriptedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.Begins++
	commitErr := r.CommitErr
	r.mu.Unlock()

	err := fn(dbctx.Context{Ctx: ctx})
	if err == nil {
		err = commitErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.Aborts++
		if r.OnAbort != nil {
			r.OnAbort()
		}
		return err
	}
	r.Commits++
	return nil
}
