package rules

import (
	"context"
	"errors"

	"github.com/rigorous-lang/rigorous/match"
	"github.com/rigorous-lang/rigorous/terms"
)

// OpFunc computes a Term from constructor arguments.  Returning a nil
// Term with nil error means the operator is not (yet) applicable, and
// the application is left as-is.
type OpFunc func(args []terms.Term) (terms.Term, error)

// ErrSealed occurs on an attempt to modify a System after evaluation
// has begun.
var ErrSealed = errors.New("rule system is sealed")

// System is an ordered repository of inference rules for one
// semantics, plus the operators its conclusions may compute with.
//
// A System is built once at semantics-definition time.  The first
// evaluation seals it; afterward it is read-only and safe to share
// across concurrent independent runs.
type System struct {
	// Name is the generic name of this semantics.  Something like
	// "arith" or "ccs".
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Doc is general documentation about how this rule system
	// works.  Markdown.
	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`

	rules  []*Rule
	tags   []string // shape tag per rule, parallel to rules
	ops    map[string]OpFunc
	sealed bool
}

func NewSystem(name string) *System {
	return &System{
		Name: name,
		ops:  make(map[string]OpFunc),
	}
}

// Register appends a rule.  Registration order determines try-order
// during evaluation: the first rule whose whole premise chain
// succeeds wins.
//
// Register computes the rule's shape tag here, at registration time,
// so that Candidates never inspects patterns during evaluation.
func (s *System) Register(r *Rule) error {
	if s.sealed {
		return ErrSealed
	}
	if r.Name == "" {
		return errors.New("rule has no name")
	}
	if r.When == nil || r.Then == nil {
		return &BadRuleError{Rule: r.Name, Err: errors.New("rule has no conclusion")}
	}
	s.rules = append(s.rules, r)
	s.tags = append(s.tags, patternTag(r.When))
	return nil
}

// MustRegister is Register that panics.  For semantics defined in Go,
// where a bad rule is a bug in this repository.
func (s *System) MustRegister(rs ...*Rule) *System {
	for _, r := range rs {
		if err := s.Register(r); err != nil {
			panic(err)
		}
	}
	return s
}

// Operator registers a named operator for use in conclusions and
// premise queries.
func (s *System) Operator(name string, f OpFunc) error {
	if s.sealed {
		return ErrSealed
	}
	if s.ops == nil {
		s.ops = make(map[string]OpFunc)
	}
	s.ops[name] = f
	return nil
}

// Rules gives the rules in registration order.  Callers must not
// modify the result.
func (s *System) Rules() []*Rule {
	return s.rules
}

// Seal freezes the System.  The Engine seals on first use; sealing
// twice is fine.
func (s *System) Seal() {
	s.sealed = true
}

// Sealed reports whether the System is frozen.
func (s *System) Sealed() bool {
	return s.sealed
}

// Candidates gives, in registration order, the rules whose conclusion
// shape is plausible for the given configuration.
//
// This is strictly an optimization.  The shape tag is coarse: a rule
// whose When pattern's head is a variable is a candidate for
// everything.  Evaluation is correct even if Candidates returns every
// rule.
func (s *System) Candidates(t terms.Term) []*Rule {
	tag := termTag(t)
	acc := make([]*Rule, 0, len(s.rules))
	for i, r := range s.rules {
		if s.tags[i] == "" || s.tags[i] == tag {
			acc = append(acc, r)
		}
	}
	return acc
}

// Compile compiles every rule's ConditionSource (if any) into a
// Condition using the given interpreters, which default to
// DefaultInterpreters.
func (s *System) Compile(ctx context.Context, interpreters map[string]Interpreter, force bool) error {
	for _, r := range s.rules {
		if r.ConditionSource == nil || (r.Condition != nil && !force) {
			continue
		}
		c, err := r.ConditionSource.Compile(ctx, interpreters)
		if err != nil {
			return &BadRuleError{Rule: r.Name, Err: err}
		}
		r.Condition = c
	}
	return nil
}

// Eval folds registered operators through a Term, bottom-up.  An App
// whose sort names a registered operator is replaced by the
// operator's result when the operator reports itself applicable.
func (s *System) Eval(t terms.Term) (terms.Term, error) {
	switch v := t.(type) {
	case terms.Seq:
		acc := make(terms.Seq, len(v))
		for i, e := range v {
			w, err := s.Eval(e)
			if err != nil {
				return nil, err
			}
			acc[i] = w
		}
		return acc, nil
	case terms.Map:
		acc := make(terms.Map, len(v))
		for k, e := range v {
			w, err := s.Eval(e)
			if err != nil {
				return nil, err
			}
			acc[k] = w
		}
		return acc, nil
	case *terms.App:
		args := make([]terms.Term, len(v.Args))
		for i, a := range v.Args {
			w, err := s.Eval(a)
			if err != nil {
				return nil, err
			}
			args[i] = w
		}
		if f, have := s.ops[v.Sort]; have {
			computed, err := f(args)
			if err != nil {
				return nil, err
			}
			if computed != nil {
				return computed, nil
			}
		}
		return terms.NewApp(v.Sort, args...), nil
	default:
		return t, nil
	}
}

// termTag summarizes a configuration's top-level shape.
func termTag(t terms.Term) string {
	switch v := t.(type) {
	case *terms.App:
		return "app:" + v.Sort
	case terms.Seq:
		return "seq"
	case terms.Map:
		return "map"
	case terms.Number:
		return "num"
	case terms.String:
		return "str"
	case terms.Bool:
		return "bool"
	case terms.Symbol:
		return "sym:" + string(v)
	default:
		return "?"
	}
}

// patternTag summarizes the shapes a When pattern can match.  The
// empty tag means "anything".
func patternTag(p terms.Term) string {
	if match.IsVariable(p) {
		return ""
	}
	return termTag(p)
}
