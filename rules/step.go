package rules

import (
	"context"
	"errors"
	"time"

	"github.com/rigorous-lang/rigorous/match"
	"github.com/rigorous-lang/rigorous/terms"
)

var (
	// DefaultControl will be used by Engine.Run if the given
	// control is nil.
	DefaultControl = &Control{
		Limit: 100,
	}

	// DefaultMaxPremiseDepth bounds premise recursion for an
	// Engine that doesn't set its own bound.
	DefaultMaxPremiseDepth = 256

	// TraceInitialCap is the initial capacity for a Walked's
	// configuration Trace.
	TraceInitialCap = 16
)

// StopReason represents the possible reasons for a Run to terminate.
type StopReason int

const (
	// Done means the configuration is stuck: no rule's premises
	// and side-condition all succeed.  For a well-formed
	// semantics paired with a well-formed program this is
	// ordinary termination, not an error.
	Done StopReason = iota

	// Limited means the step limit was hit.
	Limited

	// TimedOut means the deadline (or the caller's context) fired.
	TimedOut

	// InternalError means a rule-set bug surfaced; see Walked.Error.
	InternalError
)

func (r StopReason) String() string {
	switch r {
	case Done:
		return "done"
	case Limited:
		return "limited"
	case TimedOut:
		return "timedout"
	case InternalError:
		return "internalerror"
	default:
		return "unknown"
	}
}

// Control influences how Run operates.
type Control struct {
	// Limit is the maximum number of steps a Run can take.
	Limit int

	// Timeout, if positive, bounds the wall time of the whole
	// Run.  The bound is checked cooperatively between steps and
	// around recursive premise evaluation; there is no mid-step
	// preemption.
	Timeout time.Duration
}

// Stride records one successful rule application (or, with a nil To,
// a configuration that is stuck).
type Stride struct {
	// Rule is the name of the applied rule.
	Rule string `json:"rule,omitempty" yaml:",omitempty"`

	// From is the configuration the rule matched.
	From terms.Term `json:"-" yaml:"-"`

	// To is the next configuration.  Nil means From is stuck.
	To terms.Term `json:"-" yaml:"-"`

	// Bs are the final bindings the conclusion was instantiated
	// with.
	Bs match.Bindings `json:"-" yaml:"-"`

	// Premises holds the sub-strides taken to satisfy the rule's
	// transition premises, in declared order.  Together with Rule
	// they form the derivation tree for this step.
	Premises []*Stride `json:"premises,omitempty" yaml:",omitempty"`
}

// Stuck reports whether this Stride represents a configuration no
// rule could advance.
func (s *Stride) Stuck() bool {
	return s.To == nil
}

// Walked represents a completed (or aborted) Run.
type Walked struct {
	// Trace is the ordered sequence of configurations, from the
	// initial configuration through the last one reached.
	Trace []terms.Term

	// Strides records each rule application taken, so
	// len(Strides) == len(Trace)-1.
	Strides []*Stride

	// StoppedBecause reports why the Run stopped.
	StoppedBecause StopReason

	// Error stores the rule-set diagnostic when StoppedBecause is
	// InternalError.
	Error error
}

// Final gives the last configuration reached.
func (w *Walked) Final() terms.Term {
	if len(w.Trace) == 0 {
		return nil
	}
	return w.Trace[len(w.Trace)-1]
}

// Engine evaluates configurations against a System.
//
// An Engine holds no per-run state: a single Engine may serve
// concurrent independent runs once its System is sealed.
type Engine struct {
	System *System

	// MaxPremiseDepth bounds recursive premise evaluation.  Zero
	// means DefaultMaxPremiseDepth.
	MaxPremiseDepth int
}

func NewEngine(sys *System) *Engine {
	return &Engine{
		System: sys,
	}
}

// Step attempts one transition from the given configuration.
//
// The returned Stride has a nil To when the configuration is stuck.
// An error is a rule-set bug (or a fired context), never a mere
// failure to match: NoMatch is handled entirely inside the candidate
// loop.
func (e *Engine) Step(ctx context.Context, config terms.Term) (*Stride, error) {
	e.System.Seal()
	return e.step(ctx, config, 0)
}

func (e *Engine) step(ctx context.Context, config terms.Term, depth int) (*Stride, error) {
	// Cooperative cancellation: checked here so that a bounded
	// Run regains control even when single steps recurse deeply.
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	max := e.MaxPremiseDepth
	if max <= 0 {
		max = DefaultMaxPremiseDepth
	}
	if max < depth {
		return nil, &PremiseDepthError{depth}
	}

	for _, r := range e.System.Candidates(config) {
		bs, ok, err := match.Match(r.When, config, nil)
		if err != nil {
			return nil, &BadRuleError{Rule: r.Name, Err: err}
		}
		if !ok {
			continue
		}

		stride, err := e.try(ctx, r, config, bs, depth)
		if err != nil {
			return nil, err
		}
		if stride != nil {
			// First full success wins.  Rule priority is
			// registration order; we do not look for
			// other derivations.
			return stride, nil
		}
		// The candidate failed somewhere past the shape
		// match.  Its bindings die with it; the next
		// candidate starts fresh.
	}

	return &Stride{From: config}, nil
}

// try attempts one candidate rule.  A nil Stride with nil error means
// the candidate failed (a premise, result match, or condition didn't
// hold); any error is fatal for the whole evaluation.
func (e *Engine) try(ctx context.Context, r *Rule, config terms.Term, bs match.Bindings, depth int) (*Stride, error) {
	var subs []*Stride

	for _, p := range r.Premises {
		query, err := match.Instantiate(p.Query, bs)
		if err != nil {
			// A premise query may only reference variables
			// bound before it.  Anything else is a bug in
			// the rule.
			return nil, &BadRuleError{Rule: r.Name, Err: err}
		}
		if query, err = e.System.Eval(query); err != nil {
			return nil, &BadRuleError{Rule: r.Name, Err: err}
		}

		switch p.Kind {
		case BindPremise:
			bs2, ok, err := match.Match(p.Result, query, bs)
			if err != nil {
				return nil, &BadRuleError{Rule: r.Name, Err: err}
			}
			if !ok {
				return nil, nil
			}
			bs = bs2

		default: // StepPremise
			sub, err := e.step(ctx, query, depth+1)
			if err != nil {
				return nil, err
			}
			if sub.Stuck() {
				// The premise required a transition.
				// Once the nested step has committed
				// to "stuck", that outcome is final
				// for this attempt: no re-search.
				return nil, nil
			}
			bs2, ok, err := match.Match(p.Result, sub.To, bs)
			if err != nil {
				return nil, &BadRuleError{Rule: r.Name, Err: err}
			}
			if !ok {
				return nil, nil
			}
			bs = bs2
			subs = append(subs, sub)
		}
	}

	if r.Condition == nil && r.ConditionSource != nil {
		return nil, &BadRuleError{Rule: r.Name, Err: ConditionNotCompiled}
	}

	if r.Condition != nil {
		bs2, err := r.Condition.Check(ctx, bs)
		if err != nil {
			return nil, &BadRuleError{Rule: r.Name, Err: err}
		}
		if bs2 == nil {
			return nil, nil
		}
		bs = bs2
	}

	next, err := match.Instantiate(r.Then, bs)
	if err != nil {
		var unbound *match.UnboundVariableError
		if errors.As(err, &unbound) {
			return nil, &UnboundConclusionError{Rule: r.Name, Variable: unbound.Variable}
		}
		return nil, &BadRuleError{Rule: r.Name, Err: err}
	}
	if next, err = e.System.Eval(next); err != nil {
		return nil, &BadRuleError{Rule: r.Name, Err: err}
	}

	return &Stride{
		Rule:     r.Name,
		From:     config,
		To:       next,
		Bs:       bs,
		Premises: subs,
	}, nil
}

// Run repeatedly steps from the initial configuration until it is
// stuck or a resource bound is hit.
//
// The returned Walked always carries the partial Trace, whatever the
// stop reason.  The error result is non-nil only for rule-set bugs,
// in which case Walked.StoppedBecause is InternalError and
// Walked.Error holds the same diagnostic.
func (e *Engine) Run(ctx context.Context, initial terms.Term, c *Control) (*Walked, error) {
	if c == nil {
		c = DefaultControl
	}
	if 0 < c.Timeout {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	w := &Walked{
		Trace: make([]terms.Term, 0, TraceInitialCap),
	}
	w.Trace = append(w.Trace, initial)

	config := initial
	for i := 0; i < c.Limit; i++ {
		if ctx.Err() != nil {
			w.StoppedBecause = TimedOut
			return w, nil
		}

		stride, err := e.Step(ctx, config)
		if err != nil {
			// A condition interrupted mid-flight reports its
			// own error, not the context's, so consult the
			// context before blaming the rule set.
			if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				w.StoppedBecause = TimedOut
				return w, nil
			}
			w.StoppedBecause = InternalError
			w.Error = err
			return w, err
		}

		if stride.Stuck() {
			w.StoppedBecause = Done
			return w, nil
		}

		w.Strides = append(w.Strides, stride)
		w.Trace = append(w.Trace, stride.To)
		config = stride.To
	}

	w.StoppedBecause = Limited
	return w, nil
}
