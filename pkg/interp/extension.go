package interp

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
)

// Extension installs native functions into the global scope. Register is
// called exactly once, before any evaluation.
type Extension interface {
	Name() string
	Register(globals *Scope) error
}

// RegisterExtension lets ext populate the global scope. It fails with
// ErrAlreadyRun once Run has been called.
func (i *Interpreter) RegisterExtension(ext Extension) error {
	if i.started {
		return ErrAlreadyRun
	}
	if err := ext.Register(i.globals); err != nil {
		return fmt.Errorf(errRegisterFailed, ext.Name(), err)
	}
	i.extensions = append(i.extensions, ext)
	i.logger.Debug("extension registered", slog.String("extension", ext.Name()))
	return nil
}

// Funcs is a map-backed Extension, convenient for tests and small hosts.
type Funcs struct {
	ExtName string
	Fns     map[string]NativeFn
}

// Name implements Extension.
func (f Funcs) Name() string { return f.ExtName }

// Register implements Extension.
func (f Funcs) Register(globals *Scope) error {
	for _, name := range slices.Sorted(maps.Keys(f.Fns)) {
		if err := globals.DefineNative(name, f.Fns[name]); err != nil {
			return err
		}
	}
	return nil
}
