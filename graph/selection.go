package graph

import "strings"

// Kind distinguishes the two selection subkinds (§3).
type Kind int

const (
	// Cut passes only if both the parent passed and this selection's own
	// expression is truthy; it never touches the weight.
	Cut Kind = iota
	// Weight always passes whatever the parent passed, and multiplies
	// the running weight by this selection's own expression value.
	Weight
)

// Selection is a specialisation of a computed float64 column carrying a
// boolean cut decision and a real weight, optionally chained to a parent
// selection (nil for the root).
type Selection struct {
	Name    string
	Kind    Kind
	Channel bool
	Parent  *Selection

	decision *Computed[float64]

	passed bool
	weight float64
}

// NewSelection builds a selection whose self-expression is computed by
// expr. parent may be nil, meaning this selection is a root.
func NewSelection(name string, kind Kind, channel bool, parent *Selection, expr func() (float64, error)) *Selection {
	return &Selection{
		Name:     name,
		Kind:     kind,
		Channel:  channel,
		Parent:   parent,
		decision: NewComputed(expr),
	}
}

func (s *Selection) Initialize(r Range) error { return s.decision.Initialize(r) }
func (s *Selection) Finalize(r Range) error   { return s.decision.Finalize(r) }

// Execute recomputes the decision column, then derives Passed/Weight from
// the parent's cached decision per §3:
//
//	cut:    passed = parent.passed && self_truthy ; weight = parent.weight
//	weight: passed = parent.passed                ; weight = parent.weight * self_value
func (s *Selection) Execute(r Range, e int64) error {
	if err := s.decision.Execute(r, e); err != nil {
		return err
	}
	v := s.decision.Value()

	parentPassed, parentWeight := true, 1.0
	if s.Parent != nil {
		parentPassed, parentWeight = s.Parent.passed, s.Parent.weight
	}

	switch s.Kind {
	case Cut:
		s.passed = parentPassed && v != 0
		s.weight = parentWeight
	case Weight:
		s.passed = parentPassed
		s.weight = parentWeight * v
	}
	return nil
}

// Passed is this row's cut decision, cached since the last Execute.
func (s *Selection) Passed() bool { return s.passed }

// WeightValue is this row's accumulated weight, cached since the last
// Execute.
func (s *Selection) WeightValue() float64 { return s.weight }

// Path is channelA/channelB/.../selfName, walking the parent chain and
// collecting only channel-flagged ancestors' names, per §4.3.
func (s *Selection) Path() string {
	var parts []string
	for p := s.Parent; p != nil; p = p.Parent {
		if p.Channel {
			parts = append(parts, p.Name)
		}
	}
	// parts were collected root-to-leaf in reverse; flip them.
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	parts = append(parts, s.Name)
	return strings.Join(parts, "/")
}
