package graph

// Column produces a typed value for the current row. It is a Node whose
// Value() returns the current row's (possibly lazily cached) result.
type Column[T any] interface {
	Node
	Value() T
}

// Cell is the type-erased form a Column takes at the dataset boundary: a
// small closed set of value-type variants (the source package) plus this
// one escape hatch, per the Design Notes' "typed trees vs. type-erased
// handles" trade-off.
type Cell interface {
	Node
	Value() any
}

// TypedCell adapts a type-erased Cell into a Column[T], asserting (or
// coercing, via the source package's cast-based readers) the erased value
// down to T on every access.
type TypedCell[T any] struct {
	Raw     Cell
	Convert func(any) (T, error)
}

func (c *TypedCell[T]) Initialize(r Range) error     { return c.Raw.Initialize(r) }
func (c *TypedCell[T]) Execute(r Range, e int64) error { return c.Raw.Execute(r, e) }
func (c *TypedCell[T]) Finalize(r Range) error       { return c.Raw.Finalize(r) }

func (c *TypedCell[T]) Value() T {
	v := c.Raw.Value()
	if c.Convert == nil {
		return v.(T)
	}
	out, err := c.Convert(v)
	if err != nil {
		// Reader misuse / bad coercion is undefined at user level per
		// the engine's error policy (§7): the engine only prevents
		// reading before execute runs, not type mismatches it cannot
		// statically catch in a type-erased cell. Panic rather than
		// silently truncate.
		panic(err)
	}
	return out
}

// Constant carries a fixed value, independent of the current row.
type Constant[T any] struct {
	NoopNode
	V T
}

func NewConstant[T any](v T) *Constant[T] { return &Constant[T]{V: v} }

func (c *Constant[T]) Execute(Range, int64) error { return nil }
func (c *Constant[T]) Value() T                   { return c.V }

// Computed is a pure function of one or more upstream columns' current
// values. Its result is invalidated at the start of every row's Execute
// and lazily recomputed on first Value() access thereafter, so a column
// consumed by k>=1 downstream nodes in the same row is evaluated exactly
// once (testable property 3), and one with zero consumers is never
// evaluated at all (testable property 2) because nothing ever calls
// Value().
type Computed[T any] struct {
	NoopNode
	Compute func() (T, error)

	cached bool
	value  T
	err    error
}

func NewComputed[T any](compute func() (T, error)) *Computed[T] {
	return &Computed[T]{Compute: compute}
}

func (c *Computed[T]) Execute(Range, int64) error {
	c.cached = false
	c.err = nil
	return nil
}

// Value recomputes on first access after the most recent Execute and
// caches the result (and any error) for the rest of the row.
func (c *Computed[T]) Value() T {
	if !c.cached {
		c.value, c.err = c.Compute()
		c.cached = true
	}
	if c.err != nil {
		panic(c.err)
	}
	return c.value
}
