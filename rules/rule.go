package rules

import (
	"context"
	"errors"

	"github.com/rigorous-lang/rigorous/match"
	"github.com/rigorous-lang/rigorous/terms"
)

// PremiseKind says how a Premise is satisfied.
type PremiseKind int

const (
	// StepPremise means the premise's query is a sub-configuration
	// that must make a transition: the engine recursively steps it
	// and matches the premise's result pattern against the outcome.
	StepPremise PremiseKind = iota

	// BindPremise is a pure structural query: the premise's query
	// is instantiated with the current bindings (operators are
	// evaluated) and the result pattern is matched against it.  No
	// transition happens.
	BindPremise
)

func (k PremiseKind) String() string {
	switch k {
	case StepPremise:
		return "step"
	case BindPremise:
		return "bind"
	default:
		return "unknown"
	}
}

// Premise is a sub-query a rule requires to hold before its
// conclusion applies.
//
// The Query pattern is instantiated with the bindings accumulated so
// far, so every variable in it must already be bound (typically by
// the rule's When pattern or an earlier premise).  The Result pattern
// is then matched, extending the bindings.
type Premise struct {
	Kind   PremiseKind
	Query  terms.Term
	Result terms.Term
}

// Step makes a transition premise: Query must step to something
// matching Result.
func Step(query, result terms.Term) *Premise {
	return &Premise{Kind: StepPremise, Query: query, Result: result}
}

// Bind makes a structural premise: Result is matched against the
// instantiated Query.
func Bind(query, result terms.Term) *Premise {
	return &Premise{Kind: BindPremise, Query: query, Result: result}
}

// Condition is a side-condition gating whether a matched rule
// actually applies.
//
// Check returns nil Bindings to report that the condition does not
// hold.  A condition may also extend the bindings, which is how
// computed values flow into a conclusion.  An error from Check is a
// rule-set bug, not a matching failure.
type Condition interface {
	Check(ctx context.Context, bs match.Bindings) (match.Bindings, error)
}

// FuncCondition wraps a Go function as a Condition.
type FuncCondition func(ctx context.Context, bs match.Bindings) (match.Bindings, error)

func (f FuncCondition) Check(ctx context.Context, bs match.Bindings) (match.Bindings, error) {
	return f(ctx, bs)
}

// Rule is one inference rule: named premises, a side-condition, and a
// conclusion given as a configuration-shape pattern (When) and a
// next-configuration pattern (Then).
//
// Rules are immutable once their System is sealed.
type Rule struct {
	// Name identifies the rule in diagnostics.  Something like
	// "add-eval" or "seq-first".
	Name string `json:"name" yaml:"name"`

	// Doc describes the rule.  Markdown; audience is whoever
	// reads the rendered rule-system documentation.
	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`

	// When is the conclusion's configuration-shape pattern.  A
	// configuration must match it for the rule to be a candidate.
	When terms.Term `json:"-" yaml:"-"`

	// Then is the conclusion's next-configuration pattern,
	// instantiated with the final bindings on success.  Every
	// variable in it must be bound by When, a premise, or the
	// condition; otherwise stepping fails with a diagnostic
	// naming this rule.
	Then terms.Term `json:"-" yaml:"-"`

	// Premises are satisfied in declared order.  Later premises
	// see bindings made by earlier ones.
	Premises []*Premise `json:"-" yaml:"-"`

	// Condition, if any, gates the conclusion.
	Condition Condition `json:"-" yaml:"-"`

	// ConditionSource, if given, is compiled to a Condition by
	// System.Compile using an Interpreter.
	ConditionSource *ConditionSource `json:"condition,omitempty" yaml:"condition,omitempty"`

	// Binds optionally declares variables the Condition may bind,
	// for static analysis of the rule set.  Variables bound by
	// patterns don't need declaring.
	Binds []string `json:"binds,omitempty" yaml:"binds,omitempty"`
}

// ConditionSource is side-condition source code for some Interpreter.
type ConditionSource struct {
	// Interpreter names the Interpreter to use.  Defaults to
	// "goja" in System.Compile.
	Interpreter string `json:"interpreter,omitempty" yaml:"interpreter,omitempty"`

	// Source is the condition program.  Its environment is the
	// current bindings (without the '?' prefixes); it reports a
	// boolean or an object of new bindings.
	Source string `json:"source" yaml:"source"`
}

// Interpreter can compile and execute side-condition code.
type Interpreter interface {
	// Compile can make something that helps when Exec()ing the
	// code later.
	Compile(ctx context.Context, src string) (interface{}, error)

	// Exec evaluates the code against the bindings.  A nil result
	// with nil error means the condition does not hold.
	Exec(ctx context.Context, bs match.Bindings, src string, compiled interface{}) (match.Bindings, error)
}

// InterpreterNotFound occurs when you try to Compile a
// ConditionSource and the required interpreter isn't in the given map
// of interpreters.
var InterpreterNotFound = errors.New("interpreter not found")

// DefaultInterpreters will be used by System.Compile if given nil
// interpreters.  The goja interpreter registers itself here.
var DefaultInterpreters = make(map[string]Interpreter)

// Compile turns the source into a Condition using the given
// interpreters, which default to DefaultInterpreters.
func (cs *ConditionSource) Compile(ctx context.Context, interpreters map[string]Interpreter) (Condition, error) {
	if interpreters == nil {
		interpreters = DefaultInterpreters
	}

	name := cs.Interpreter
	if name == "" {
		name = "goja"
	}

	interpreter, have := interpreters[name]
	if !have {
		return nil, InterpreterNotFound
	}

	compiled, err := interpreter.Compile(ctx, cs.Source)
	if err != nil {
		return nil, err
	}

	return FuncCondition(func(ctx context.Context, bs match.Bindings) (match.Bindings, error) {
		return interpreter.Exec(ctx, bs, cs.Source, compiled)
	}), nil
}
