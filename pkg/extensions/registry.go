// Package extensions resolves extension names from configuration to
// interp.Extension instances.
//
// Implementations live in sub-packages and register a factory from their
// init function. Import them with a blank identifier, or import
// pkg/extensions/all to get every builtin:
//
//	import _ "github.com/leapstack-labs/vela/pkg/extensions/all"
package extensions

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/leapstack-labs/vela/pkg/interp"
)

// LineReader reads one line of user input after showing prompt. Hosts that
// already own the terminal, such as a REPL, share theirs through Options.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// Options carries host settings that extensions may need. Zero fields get
// defaults from WithDefaults.
type Options struct {
	Logger      *slog.Logger
	Stdout      io.Writer
	Stdin       io.Reader
	Lines       LineReader // when set, input() reads through it instead of Stdin
	HTTPTimeout time.Duration
	StorePath   string
	Location    *time.Location
}

// WithDefaults fills unset fields.
func (o Options) WithDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.HTTPTimeout <= 0 {
		o.HTTPTimeout = 10 * time.Second
	}
	if o.StorePath == "" {
		o.StorePath = ":memory:"
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	return o
}

// Factory builds an extension instance.
type Factory func(Options) (interp.Extension, error)

type entry struct {
	description string
	factory     Factory
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]entry)
)

// Register adds an extension factory to the registry.
// Called by extension implementations in their init() functions.
func Register(name, description string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = entry{description: description, factory: factory}
}

// IsRegistered checks if an extension name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}

// Description returns the one-line description an extension registered with.
func Description(name string) string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[name].description
}

// Names returns all registered extension names (sorted).
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builtin creates the extension registered under name.
func Builtin(name string, opts Options) (interp.Extension, error) {
	registryMu.RLock()
	e, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, &UnknownExtensionError{Name: name, Available: Names()}
	}

	ext, err := e.factory(opts.WithDefaults())
	if err != nil {
		return nil, fmt.Errorf("create extension %s: %w", name, err)
	}
	return ext, nil
}

// Load creates the named extensions in order. On failure, extensions
// already created are closed.
func Load(names []string, opts Options) ([]interp.Extension, error) {
	exts := make([]interp.Extension, 0, len(names))
	for _, name := range names {
		ext, err := Builtin(name, opts)
		if err != nil {
			return nil, errors.Join(err, Close(exts))
		}
		exts = append(exts, ext)
	}
	return exts, nil
}

// Close releases extensions that hold resources (those implementing
// io.Closer).
func Close(exts []interp.Extension) error {
	var errs []error
	for _, ext := range exts {
		if c, ok := ext.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close extension %s: %w", ext.Name(), err))
			}
		}
	}
	return errors.Join(errs...)
}

// Provides returns the global names ext defines, sorted.
func Provides(ext interp.Extension) ([]string, error) {
	scope := interp.NewScope(nil)
	if err := ext.Register(scope); err != nil {
		return nil, err
	}
	return scope.Names(), nil
}

// UnknownExtensionError is returned when an unknown extension is requested.
type UnknownExtensionError struct {
	Name      string
	Available []string
}

func (e *UnknownExtensionError) Error() string {
	return fmt.Sprintf("unknown extension %q\nAvailable extensions: %v\nHint: Check extensions in vela.yaml", e.Name, e.Available)
}
