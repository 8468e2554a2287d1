package fstruct

import (
	"errors"
	"maps"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// DefaultMaxDepth bounds structure nesting when Options.MaxDepth is zero.
const DefaultMaxDepth = 32

type Options struct {
	Logger *zap.Logger // nil disables logging
	// MaxDepth is how many levels of nested structures a schema may expand
	// through. Zero means DefaultMaxDepth.
	MaxDepth int
}

// Registry is a catalog of Descriptors keyed by type name. Entries are added
// at most once per name and never removed, so a *Descriptor obtained from a
// Registry stays valid for the life of the process.
//
// Writers serialize on a mutex and publish an immutable snapshot; readers
// load the current snapshot and never block.
type Registry struct {
	mu   sync.Mutex
	snap atomic.Pointer[snapshot]
	log  atomic.Pointer[zap.Logger]

	maxDepth int

	layoutMu sync.RWMutex
	layouts  map[string]*Layout
}

type snapshot struct {
	byName map[string]*Descriptor
	order  []*Descriptor
}

// Default is the process-wide registry used by the package-level helpers.
var Default = NewRegistry(Options{})

// NewRegistry returns an empty registry configured by opts.
func NewRegistry(opts Options) *Registry {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	r := &Registry{layouts: make(map[string]*Layout), maxDepth: opts.MaxDepth}
	r.snap.Store(&snapshot{byName: map[string]*Descriptor{}})
	r.SetLogger(opts.Logger)
	return r
}

// SetLogger replaces r's logger. A nil logger disables logging.
func (r *Registry) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	r.log.Store(l)
}

func (r *Registry) logger() *zap.Logger { return r.log.Load() }

// SetLogger replaces the logger of the Default registry.
func SetLogger(l *zap.Logger) { Default.SetLogger(l) }

// Register adds d unless a descriptor with the same type name is already
// present, and returns the descriptor that is live for that name. Registering
// an existing name is a silent no-op; the first descriptor always wins.
func (r *Registry) Register(d *Descriptor) *Descriptor {
	if live, ok := r.Lookup(d.TypeName()); ok {
		return live
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur := r.snap.Load()
	if live, ok := cur.byName[d.typeName]; ok {
		return live
	}
	next := &snapshot{
		byName: maps.Clone(cur.byName),
		order:  append(cur.order[:len(cur.order):len(cur.order)], d),
	}
	next.byName[d.typeName] = d
	r.snap.Store(next)
	r.logger().Debug("structure registered",
		zap.String("type", d.typeName),
		zap.Int("size", d.size),
		zap.Int("registered", len(next.order)))
	return d
}

// RegisterValidated resolves d's schema against r and registers d only if the
// schema is well formed, every referenced structure is already registered and
// the fields add up to d.Size(). A name that is already registered is a no-op
// returning the live descriptor.
func (r *Registry) RegisterValidated(d *Descriptor) (*Descriptor, error) {
	if live, ok := r.Lookup(d.TypeName()); ok {
		r.logger().Debug("registration ignored, type already present", zap.String("type", d.typeName))
		return live, nil
	}
	if _, err := r.resolveUncached(d); err != nil {
		r.logger().Warn("structure rejected", zap.String("type", d.typeName), zap.Error(err))
		return nil, err
	}
	return r.Register(d), nil
}

// Contains reports whether a descriptor is registered under typeName.
func (r *Registry) Contains(typeName string) bool {
	_, ok := r.snap.Load().byName[typeName]
	return ok
}

// Lookup returns the descriptor registered under typeName.
func (r *Registry) Lookup(typeName string) (*Descriptor, bool) {
	d, ok := r.snap.Load().byName[typeName]
	return d, ok
}

// All returns every registered descriptor in registration order. Callers
// should not rely on the order.
func (r *Registry) All() []*Descriptor {
	order := r.snap.Load().order
	out := make([]*Descriptor, len(order))
	copy(out, order)
	return out
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int { return len(r.snap.Load().order) }

// Verify resolves every registered descriptor and returns all failures
// joined. It is meant to run once registration by init functions is done.
func (r *Registry) Verify() error {
	var errs []error
	for _, d := range r.All() {
		if _, err := r.Resolve(d); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Resolve flattens d's schema into a Layout. Layouts of registered
// descriptors are cached; failures are not.
func (r *Registry) Resolve(d *Descriptor) (*Layout, error) {
	live, ok := r.Lookup(d.typeName)
	if !ok || live != d {
		return r.resolveUncached(d)
	}

	r.layoutMu.RLock()
	if l, ok := r.layouts[d.typeName]; ok {
		r.layoutMu.RUnlock()
		return l, nil
	}
	r.layoutMu.RUnlock()

	l, err := r.resolveUncached(d)
	if err != nil {
		return nil, err
	}

	r.layoutMu.Lock()
	defer r.layoutMu.Unlock()
	// Double-check
	if cached, ok := r.layouts[d.typeName]; ok {
		return cached, nil
	}
	r.layouts[d.typeName] = l
	return l, nil
}

func (r *Registry) resolveUncached(d *Descriptor) (*Layout, error) {
	rs := &resolver{reg: r, maxDepth: r.maxDepth, visiting: map[string]bool{}}
	fields, err := rs.resolve(d, "", 0, 0, nil)
	if err != nil {
		return nil, err
	}
	return newLayout(d.typeName, d.size, fields), nil
}

// Submit registers T's descriptor in Default without validating it. Use it
// from init functions, where other structures T refers to may not be
// registered yet, and call Default.Verify once startup is done.
func Submit[T Structure]() *Descriptor {
	return Default.Register(DescriptorOf[T]())
}

// Register validates and registers T's descriptor in Default.
func Register[T Structure]() (*Descriptor, error) {
	return Default.RegisterValidated(DescriptorOf[T]())
}

// MustRegister is like Register but panics on an invalid schema.
func MustRegister[T Structure]() *Descriptor {
	d, err := Register[T]()
	if err != nil {
		panic(err)
	}
	return d
}

// Lookup returns the descriptor registered in Default under typeName.
func Lookup(typeName string) (*Descriptor, bool) {
	return Default.Lookup(typeName)
}

// Contains reports whether Default holds typeName.
func Contains(typeName string) bool {
	return Default.Contains(typeName)
}
