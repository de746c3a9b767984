package repokit

import (
	"context"
	"errors"
	"testing"

	"taxintake/internal/platform/store"
)

type fakeTag int64

func (t fakeTag) String() string      { return "UPDATE" }
func (t fakeTag) RowsAffected() int64 { return int64(t) }

type fakeQ struct{ n int64 }

func (f fakeQ) Exec(context.Context, string, ...any) (store.CommandTag, error) {
	return fakeTag(f.n), nil
}
func (fakeQ) Query(context.Context, string, ...any) (store.Rows, error) { return nil, nil }
func (fakeQ) QueryRow(context.Context, string, ...any) store.Row        { return nil }

type fakeTx struct {
	fakeQ
	ran bool
}

func (f *fakeTx) Tx(_ context.Context, fn func(q store.RowQuerier) error) error {
	f.ran = true
	return fn(f.fakeQ)
}

func TestWithTx(t *testing.T) {
	tx := &fakeTx{fakeQ: fakeQ{n: 1}}
	err := WithTx(context.Background(), tx, func(q Queryer) error {
		return ExecOne(context.Background(), q, "UPDATE x")
	})
	if err != nil || !tx.ran {
		t.Fatalf("ran=%v err=%v", tx.ran, err)
	}

	boom := errors.New("boom")
	if err := WithTx(context.Background(), tx, func(Queryer) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
}

func TestExecOneZeroRows(t *testing.T) {
	if err := ExecOne(context.Background(), fakeQ{n: 0}, "UPDATE x"); err == nil {
		t.Fatal("zero rows should fail")
	}
}
