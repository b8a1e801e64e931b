package ffi

import (
	"sort"
	"sync"

	"github.com/gosc-lang/gosc/errors"
)

// Factory is a registry of foreign routines keyed by name. It is safe for
// concurrent use.
type Factory struct {
	mu       sync.RWMutex
	registry map[string]Ffi
}

// NewFactory returns an empty Factory.
func NewFactory() *Factory {
	return &Factory{registry: map[string]Ffi{}}
}

// Register adds a routine. Registering a name twice is an error.
func (f *Factory) Register(name string, routine Ffi) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.registry[name]; ok {
		return errors.Newf(errors.Image, errors.E3003, "FFI named %s already registered", name)
	}
	f.registry[name] = routine
	return nil
}

// MustRegister is like Register but panics on a duplicate name.
func (f *Factory) MustRegister(name string, routine Ffi) {
	if err := f.Register(name, routine); err != nil {
		panic(err)
	}
}

// Create returns the routine registered under name.
func (f *Factory) Create(name string) (Ffi, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if routine, ok := f.registry[name]; ok {
		return routine, nil
	}
	err := errors.Newf(errors.Image, errors.E3002, "FFI named %s not found", name)
	err.Suggestions = errors.SuggestSimilar(name, f.namesLocked())
	return nil, err
}

// Names returns the registered names in sorted order.
func (f *Factory) Names() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.namesLocked()
}

func (f *Factory) namesLocked() []string {
	names := make([]string, 0, len(f.registry))
	for name := range f.registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
