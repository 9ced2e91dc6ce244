package rules

// These errors are rule-set bugs, not matching failures and not
// engine bugs.  They abort a run with a diagnostic naming the
// offending rule; the engine never silently produces a wrong
// configuration.

import (
	"errors"
	"strconv"
)

// ConditionNotCompiled occurs when a rule declares condition source
// but System.Compile was never called, so there is no Condition to
// check.  Stepping refuses rather than ignoring the declared
// side-condition.
var ConditionNotCompiled = errors.New("condition source not compiled")

// BadRuleError wraps a problem with a specific rule: a condition that
// errored, a premise query with an unbound variable, an operator that
// failed.
type BadRuleError struct {
	Rule string
	Err  error
}

func (e *BadRuleError) Error() string {
	return `rule "` + e.Rule + `": ` + e.Err.Error()
}

func (e *BadRuleError) Unwrap() error {
	return e.Err
}

// UnboundConclusionError occurs when a rule's premises and condition
// all succeeded but its next-configuration pattern references a
// variable nothing bound.
type UnboundConclusionError struct {
	Rule     string
	Variable string
}

func (e *UnboundConclusionError) Error() string {
	return `rule "` + e.Rule + `" conclusion references unbound variable ` + e.Variable
}

// PremiseDepthError occurs when premise evaluation recurses past
// Engine.MaxPremiseDepth, which indicates a rule set whose premises
// don't get structurally smaller.
type PremiseDepthError struct {
	Depth int
}

func (e *PremiseDepthError) Error() string {
	return "premise recursion exceeded depth " + strconv.Itoa(e.Depth)
}
