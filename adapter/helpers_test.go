package adapter_test

import (
	"context"
	"errors"
	"iter"
	"sync"

	"github.com/jacentio/sdbmap/mapper"
	"github.com/jacentio/sdbmap/store"
	"github.com/jacentio/sdbmap/store/memstore"
)

var person = &mapper.Model{
	Name:        "Person",
	StorageName: "people",
	Properties: []mapper.Property{
		{Name: "id", Kind: mapper.KindString, Key: true},
		{Name: "name", Kind: mapper.KindString, Key: true},
		{Name: "age", Kind: mapper.KindInteger},
		{Name: "wealth", Kind: mapper.KindFloat},
		{Name: "tags", Kind: mapper.KindString},
	},
}

func ann() *mapper.Record {
	return mapper.NewRecord(person, map[string]any{
		"id":     "1",
		"name":   "Ann",
		"age":    25,
		"wealth": 10.5,
	})
}

func annKey() *mapper.Query {
	return mapper.KeyQuery(person, map[string]any{"id": "1", "name": "Ann"})
}

var errInjected = errors.New("injected store failure")

// recordingDomain wraps a memstore, recording every call. It deliberately
// hides the Swapper implementation of the wrapped domain.
type recordingDomain struct {
	mu    sync.Mutex
	inner *memstore.Domain
	calls []string
	exprs []string

	// failPut fails the nth PutAttributes call (1-based); 0 never fails.
	failPut int
	puts    int

	// queryTail is yielded after the wrapped query's results.
	queryTail []store.Item
	queryErr  error
}

func newRecordingDomain() *recordingDomain {
	return &recordingDomain{inner: memstore.New()}
}

func (d *recordingDomain) record(call string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, call)
}

func (d *recordingDomain) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

func (d *recordingDomain) PutAttributes(ctx context.Context, item string, attrs store.Attributes) error {
	d.record("put")
	d.puts++
	if d.failPut != 0 && d.puts == d.failPut {
		return errInjected
	}
	return d.inner.PutAttributes(ctx, item, attrs)
}

func (d *recordingDomain) DeleteAttributes(ctx context.Context, item string, attrs store.Attributes) error {
	d.record("delete")
	return d.inner.DeleteAttributes(ctx, item, attrs)
}

func (d *recordingDomain) GetAttributes(ctx context.Context, item string) (store.Attributes, error) {
	d.record("get")
	return d.inner.GetAttributes(ctx, item)
}

func (d *recordingDomain) Query(ctx context.Context, expr string, loadAttrs bool) iter.Seq2[store.Item, error] {
	d.record("query")
	d.mu.Lock()
	d.exprs = append(d.exprs, expr)
	d.mu.Unlock()

	return func(yield func(store.Item, error) bool) {
		for item, err := range d.inner.Query(ctx, expr, loadAttrs) {
			if !yield(item, err) {
				return
			}
		}
		for _, item := range d.queryTail {
			if !yield(item, nil) {
				return
			}
		}
		if d.queryErr != nil {
			yield(store.Item{}, d.queryErr)
		}
	}
}

// racingDomain bumps the version attribute right after every read, as a
// concurrent writer would.
type racingDomain struct {
	*memstore.Domain
	versionAttr string
}

func (d *racingDomain) GetAttributes(ctx context.Context, item string) (store.Attributes, error) {
	attrs, err := d.Domain.GetAttributes(ctx, item)
	if err != nil {
		return nil, err
	}
	current := attrs[d.versionAttr][0]
	if err := d.Domain.SwapAttribute(ctx, item, d.versionAttr, current, "00000000000000000000000000000099"); err != nil {
		return nil, err
	}
	return attrs, nil
}

// deletingDomain removes the item right after every read, as a concurrent
// delete would.
type deletingDomain struct {
	*memstore.Domain
}

func (d *deletingDomain) GetAttributes(ctx context.Context, item string) (store.Attributes, error) {
	attrs, err := d.Domain.GetAttributes(ctx, item)
	if err != nil {
		return nil, err
	}
	if err := d.Domain.DeleteAttributes(ctx, item, nil); err != nil {
		return nil, err
	}
	return attrs, nil
}
