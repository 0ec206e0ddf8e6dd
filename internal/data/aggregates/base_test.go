package aggregates

import (
	"context"
	"errors"
	"testing"
	"time"

	domainagg "github.com/yungbote/honeyshop-backend/internal/domain/aggregates"
	"github.com/yungbote/honeyshop-backend/internal/platform/dbctx"
)

func TestExecuteWriteReportsOutcome(t *testing.T) {
	cases := []struct {
		name      string
		fnErr     error
		status    string
		conflicts int
		retries   int
	}{
		{"committed", nil, "success", 0, 0},
		{"empty cart", InvariantError("cart is empty"), string(domainagg.CodeInvariantViolation), 0, 0},
		{"duplicate order number", ConflictError("order number taken"), string(domainagg.CodeConflict), 1, 0},
		{"lock timeout", RetryableError("lock timeout"), string(domainagg.CodeRetryable), 0, 1},
		{"deadline", context.DeadlineExceeded, string(domainagg.CodeRetryable), 0, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hooks := &spyHooks{}
			err := executeWrite(context.Background(), BaseDeps{Runner: spyTxRunner{}, Hooks: hooks},
				"Commerce.Order.Place", func(dbctx.Context) error { return tc.fnErr })
			if (tc.fnErr == nil) != (err == nil) {
				t.Fatalf("err=%v", err)
			}
			if len(hooks.ops) != 1 || hooks.ops[0] != "Commerce.Order.Place:"+tc.status {
				t.Fatalf("observed: %v", hooks.ops)
			}
			if len(hooks.conflicts) != tc.conflicts || len(hooks.retries) != tc.retries {
				t.Fatalf("conflicts=%v retries=%v", hooks.conflicts, hooks.retries)
			}
		})
	}
}

func TestExecuteWriteDefaultsOpName(t *testing.T) {
	hooks := &spyHooks{}
	_ = executeWrite(context.Background(), BaseDeps{Hooks: hooks}, "  ", func(dbctx.Context) error { return nil })
	if len(hooks.ops) != 1 || hooks.ops[0] != "aggregate.write:success" {
		t.Fatalf("observed: %v", hooks.ops)
	}
}

func TestAggregateErrorStatusUncoded(t *testing.T) {
	if got := aggregateErrorStatus(errors.New("disk on fire")); got == "" || got == "success" {
		t.Fatalf("status=%q", got)
	}
}

type spyTxRunner struct{}

func (spyTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	return fn(dbctx.Context{Ctx: ctx})
}

type spyHooks struct {
	ops       []string
	conflicts []string
	retries   []string
}

func (h *spyHooks) ObserveOperation(name, status string, _ time.Duration) {
	h.ops = append(h.ops, name+":"+status)
}

func (h *spyHooks) IncConflict(name string) { h.conflicts = append(h.conflicts, name) }
func (h *spyHooks) IncRetry(name string)    { h.retries = append(h.retries, name) }
