// Package store provides persistent key/value storage to scripts. Values are
// saved as JSON, so arrays and objects round-trip with their key order.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/vela/internal/state"
	"github.com/leapstack-labs/vela/pkg/extensions"
	"github.com/leapstack-labs/vela/pkg/interp"
)

func init() {
	extensions.Register("store", "store_set, store_get, store_delete, store_keys", func(opts extensions.Options) (interp.Extension, error) {
		return Open(opts.StorePath)
	})
}

// Extension implements interp.Extension and io.Closer.
type Extension struct {
	store state.Store
}

// New wraps an already opened store.
func New(store state.Store) *Extension {
	return &Extension{store: store}
}

// Open opens the SQLite database at path and applies migrations.
func Open(path string) (*Extension, error) {
	s := state.NewSQLiteStore()
	if err := s.Open(path); err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	return New(s), nil
}

// Name implements interp.Extension.
func (e *Extension) Name() string { return "store" }

// Close releases the database.
func (e *Extension) Close() error { return e.store.Close() }

// Register implements interp.Extension.
func (e *Extension) Register(globals *interp.Scope) error {
	return interp.Funcs{ExtName: e.Name(), Fns: map[string]interp.NativeFn{
		"store_set":    e.set,
		"store_get":    e.get,
		"store_delete": e.del,
		"store_keys":   e.keys,
	}}.Register(globals)
}

// set returns the stored value so calls can be chained into declarations.
func (e *Extension) set(ctx context.Context, args []interp.Value) (interp.Value, error) {
	key, err := interp.StringArg("store_set", args, 0)
	if err != nil {
		return nil, err
	}
	v := interp.Arg(args, 1)
	if _, ok := v.(*interp.Function); ok {
		return nil, interp.Errorf(interp.TypeError, "store_set: cannot store %s", interp.TypeName(v))
	}
	if _, ok := v.(*interp.NativeFunc); ok {
		return nil, interp.Errorf(interp.TypeError, "store_set: cannot store %s", interp.TypeName(v))
	}
	encoded, err := interp.ToJSON(v, "")
	if err != nil {
		return nil, err
	}
	if err := e.store.Set(ctx, key, encoded); err != nil {
		return nil, err
	}
	return v, nil
}

// get returns nil for keys that were never set.
func (e *Extension) get(ctx context.Context, args []interp.Value) (interp.Value, error) {
	key, err := interp.StringArg("store_get", args, 0)
	if err != nil {
		return nil, err
	}
	raw, err := e.store.Get(ctx, key)
	if errors.Is(err, state.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return interp.DecodeJSON(strings.NewReader(raw))
}

func (e *Extension) del(ctx context.Context, args []interp.Value) (interp.Value, error) {
	key, err := interp.StringArg("store_delete", args, 0)
	if err != nil {
		return nil, err
	}
	return e.store.Delete(ctx, key)
}

func (e *Extension) keys(ctx context.Context, _ []interp.Value) (interp.Value, error) {
	keys, err := e.store.Keys(ctx)
	if err != nil {
		return nil, err
	}
	out := interp.NewArray()
	for _, k := range keys {
		out.Elems = append(out.Elems, k)
	}
	return out, nil
}
