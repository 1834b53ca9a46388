package service

import (
	"context"
	"errors"
	"testing"

	"bugsift/internal/modkit/repokit"
	"bugsift/internal/services/commits/repo"

	"github.com/google/go-cmp/cmp"
)

type fakeStorage struct {
	data    map[int64]string
	calls   [][]int64
	upserts int
	err     error
}

func (f *fakeStorage) Messages(_ context.Context, ids []int64) (map[int64]string, error) {
	f.calls = append(f.calls, append([]int64(nil), ids...))
	if f.err != nil {
		return nil, f.err
	}
	out := map[int64]string{}
	for _, id := range ids {
		if m, ok := f.data[id]; ok {
			out[id] = m
		}
	}
	return out, nil
}

func (f *fakeStorage) Upsert(_ context.Context, msgs map[int64]string) (int, error) {
	f.upserts++
	for id, m := range msgs {
		f.data[id] = m
	}
	return len(msgs), nil
}

type fakeTx struct {
	repokit.Queryer
	txs int
}

func (f *fakeTx) Tx(_ context.Context, fn func(repokit.Queryer) error) error {
	f.txs++
	return fn(f)
}

func newSvc(st *fakeStorage, chunk int) (*Service, *fakeTx) {
	tx := &fakeTx{}
	b := repokit.BindFunc[repo.Storage](func(repokit.Queryer) repo.Storage { return st })
	return New(tx, b, Config{ChunkSize: chunk}), tx
}

func TestMessages_DedupAndChunks(t *testing.T) {
	st := &fakeStorage{data: map[int64]string{42: "fix foo", 3: "bar"}}
	svc, _ := newSvc(st, 2)

	got, err := svc.Messages(context.Background(), []int64{42, 7, 42, 3, 7})
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if diff := cmp.Diff(map[int64]string{42: "fix foo", 3: "bar"}, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]int64{{42, 7}, {3}}, st.calls); diff != "" {
		t.Fatalf("chunks (-want +got):\n%s", diff)
	}
}

func TestMessages_EmptySkipsQuery(t *testing.T) {
	st := &fakeStorage{}
	svc, _ := newSvc(st, 0)
	got, err := svc.Messages(context.Background(), nil)
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("Messages(nil) = %v, %v", got, err)
	}
	if len(st.calls) != 0 {
		t.Fatalf("no query expected")
	}
	if svc.Cfg.ChunkSize != 5000 {
		t.Fatalf("default chunk = %d", svc.Cfg.ChunkSize)
	}
}

func TestMessages_Error(t *testing.T) {
	st := &fakeStorage{err: errors.New("down")}
	svc, _ := newSvc(st, 0)
	if _, err := svc.Messages(context.Background(), []int64{1}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestUpsert_UsesTx(t *testing.T) {
	st := &fakeStorage{data: map[int64]string{}}
	svc, tx := newSvc(st, 0)

	if n, err := svc.Upsert(context.Background(), nil); n != 0 || err != nil || tx.txs != 0 {
		t.Fatalf("empty upsert = %d, %v (txs %d)", n, err, tx.txs)
	}
	n, err := svc.Upsert(context.Background(), map[int64]string{1: "a", 2: "b"})
	if err != nil || n != 2 || tx.txs != 1 || st.data[2] != "b" {
		t.Fatalf("Upsert = %d, %v (txs %d)", n, err, tx.txs)
	}
}
