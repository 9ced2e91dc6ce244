package rules

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rigorous-lang/rigorous/match"
	"github.com/rigorous-lang/rigorous/terms"
)

func num(n float64) terms.Term { return terms.Num(n) }
func sym(s string) terms.Term  { return terms.Sym(s) }

func app(sort string, args ...terms.Term) terms.Term {
	return terms.NewApp(sort, args...)
}

// addSystem is a minimal arithmetic system: one computation rule
// plus left/right congruence so nested sums also reduce.
func addSystem(t *testing.T) *System {
	t.Helper()

	sys := NewSystem("add")
	if err := sys.Operator("+", func(args []terms.Term) (terms.Term, error) {
		l, lis := args[0].(terms.Number)
		r, ris := args[1].(terms.Number)
		if !lis || !ris {
			return nil, nil
		}
		return terms.Num(float64(l) + float64(r)), nil
	}); err != nil {
		t.Fatal(err)
	}

	sys.MustRegister(
		&Rule{
			Name: "add-l",
			When: app("add", sym("?l"), sym("?r")),
			Premises: []*Premise{
				Step(sym("?l"), sym("?l2")),
			},
			Then: app("add", sym("?l2"), sym("?r")),
		},
		&Rule{
			Name: "add-r",
			When: app("add", sym("?l"), sym("?r")),
			Premises: []*Premise{
				Step(sym("?r"), sym("?r2")),
			},
			Then: app("add", sym("?l"), sym("?r2")),
		},
		&Rule{
			Name: "add-eval",
			When: app("add", sym("?l"), sym("?r")),
			Condition: FuncCondition(func(ctx context.Context, bs match.Bindings) (match.Bindings, error) {
				if _, is := bs["?l"].(terms.Number); !is {
					return nil, nil
				}
				if _, is := bs["?r"].(terms.Number); !is {
					return nil, nil
				}
				return bs, nil
			}),
			Then: app("+", sym("?l"), sym("?r")),
		},
	)

	return sys
}

func TestRunArithEndToEnd(t *testing.T) {
	e := NewEngine(addSystem(t))
	ctx := context.Background()

	w, err := e.Run(ctx, app("add", num(2), num(3)), nil)
	if err != nil {
		t.Fatal(err)
	}
	if w.StoppedBecause != Done {
		t.Fatalf("stopped because %s", w.StoppedBecause)
	}
	if len(w.Trace) != 2 {
		t.Fatalf("trace has %d configurations", len(w.Trace))
	}
	if !terms.Equal(w.Final(), num(5)) {
		t.Fatalf("final %s", w.Final())
	}
	if w.Strides[0].Rule != "add-eval" {
		t.Fatalf("applied %s", w.Strides[0].Rule)
	}
}

func TestRunNestedPremises(t *testing.T) {
	e := NewEngine(addSystem(t))
	ctx := context.Background()

	// (1 + 2) + (3 + 4) takes three steps to reach 10.
	initial := app("add",
		app("add", num(1), num(2)),
		app("add", num(3), num(4)))

	w, err := e.Run(ctx, initial, nil)
	if err != nil {
		t.Fatal(err)
	}
	if w.StoppedBecause != Done {
		t.Fatalf("stopped because %s", w.StoppedBecause)
	}
	if !terms.Equal(w.Final(), num(10)) {
		t.Fatalf("final %s", w.Final())
	}
	if len(w.Strides) != 3 {
		t.Fatalf("took %d strides", len(w.Strides))
	}

	// The first stride reduced the left operand via the add-l
	// congruence, so its derivation has a sub-stride.
	if w.Strides[0].Rule != "add-l" {
		t.Fatalf("first rule %s", w.Strides[0].Rule)
	}
	if len(w.Strides[0].Premises) != 1 || w.Strides[0].Premises[0].Rule != "add-eval" {
		t.Fatalf("derivation %#v", w.Strides[0].Premises)
	}
}

func TestStepStuck(t *testing.T) {
	e := NewEngine(addSystem(t))

	stride, err := e.Step(context.Background(), num(5))
	if err != nil {
		t.Fatal(err)
	}
	if !stride.Stuck() {
		t.Fatalf("a bare literal stepped to %s", stride.To)
	}
}

func TestRulePriority(t *testing.T) {
	sys := NewSystem("priority")
	sys.MustRegister(
		&Rule{
			Name: "first",
			When: app("c", sym("?x")),
			Then: sym("one"),
		},
		&Rule{
			Name: "second",
			When: app("c", sym("?x")),
			Then: sym("two"),
		},
	)

	stride, err := NewEngine(sys).Step(context.Background(), app("c", num(0)))
	if err != nil {
		t.Fatal(err)
	}
	if stride.Rule != "first" || !terms.Equal(stride.To, sym("one")) {
		t.Fatalf("rule %s gave %s", stride.Rule, stride.To)
	}
}

func TestNoPartialLeak(t *testing.T) {
	// The first candidate's first premise binds ?y; its second
	// premise always fails.  The second candidate's condition
	// inspects the bindings: ?y from the failed attempt must not
	// be visible.
	var leaked bool

	sys := NewSystem("leak")
	sys.MustRegister(
		&Rule{
			Name: "tick",
			When: sym("sub"),
			Then: sym("ticked"),
		},
		&Rule{
			Name: "failing",
			When: app("c", sym("?x")),
			Premises: []*Premise{
				Step(sym("sub"), sym("?y")),
				Bind(sym("?x"), num(999)), // never matches
			},
			Then: sym("?y"),
		},
		&Rule{
			Name: "fallback",
			When: app("c", sym("?x")),
			Condition: FuncCondition(func(ctx context.Context, bs match.Bindings) (match.Bindings, error) {
				if _, have := bs["?y"]; have {
					leaked = true
				}
				return bs, nil
			}),
			Then: sym("fell-back"),
		},
	)

	stride, err := NewEngine(sys).Step(context.Background(), app("c", num(1)))
	if err != nil {
		t.Fatal(err)
	}
	if stride.Rule != "fallback" {
		t.Fatalf("applied %s", stride.Rule)
	}
	if leaked {
		t.Fatal("bindings from the failed candidate leaked")
	}
}

// spinSystem admits an infinite step sequence.
func spinSystem() *System {
	sys := NewSystem("spin")
	sys.MustRegister(&Rule{
		Name: "spin",
		When: app("spin", sym("?n")),
		Then: app("spin", sym("?n")),
	})
	return sys
}

func TestRunStepLimit(t *testing.T) {
	e := NewEngine(spinSystem())

	w, err := e.Run(context.Background(), app("spin", num(0)), &Control{Limit: 7})
	if err != nil {
		t.Fatal(err)
	}
	if w.StoppedBecause != Limited {
		t.Fatalf("stopped because %s", w.StoppedBecause)
	}
	if len(w.Strides) != 7 {
		t.Fatalf("took %d strides", len(w.Strides))
	}
	if len(w.Trace) != 8 {
		t.Fatalf("trace has %d configurations", len(w.Trace))
	}
}

func TestRunTimeout(t *testing.T) {
	e := NewEngine(spinSystem())

	w, err := e.Run(context.Background(), app("spin", num(0)), &Control{
		Limit:   1 << 30,
		Timeout: 10 * time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}
	if w.StoppedBecause != TimedOut {
		t.Fatalf("stopped because %s", w.StoppedBecause)
	}
}

func TestRunCanceledContext(t *testing.T) {
	e := NewEngine(spinSystem())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w, err := e.Run(ctx, app("spin", num(0)), &Control{Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if w.StoppedBecause != TimedOut {
		t.Fatalf("stopped because %s", w.StoppedBecause)
	}
}

func TestUnboundConclusion(t *testing.T) {
	sys := NewSystem("bad")
	sys.MustRegister(&Rule{
		Name: "oops",
		When: app("c", sym("?x")),
		Then: sym("?nothing-bound-me"),
	})

	_, err := NewEngine(sys).Step(context.Background(), app("c", num(1)))
	if err == nil {
		t.Fatal("expected a diagnostic")
	}
	var unbound *UnboundConclusionError
	if !errors.As(err, &unbound) {
		t.Fatalf("expected *UnboundConclusionError, got %T: %v", err, err)
	}
	if unbound.Rule != "oops" {
		t.Fatalf("diagnostic names rule %q", unbound.Rule)
	}
}

func TestUnboundPremiseQuery(t *testing.T) {
	sys := NewSystem("bad")
	sys.MustRegister(
		&Rule{
			Name: "tick",
			When: sym("sub"),
			Then: sym("ticked"),
		},
		&Rule{
			Name: "oops",
			When: app("c", sym("?x")),
			Premises: []*Premise{
				Step(sym("?later"), sym("?y")),
			},
			Then: sym("?y"),
		},
	)

	_, err := NewEngine(sys).Step(context.Background(), app("c", num(1)))
	var bad *BadRuleError
	if !errors.As(err, &bad) {
		t.Fatalf("expected *BadRuleError, got %T: %v", err, err)
	}
	if bad.Rule != "oops" {
		t.Fatalf("diagnostic names rule %q", bad.Rule)
	}
}

func TestPremiseDepthBound(t *testing.T) {
	// A premise that recurses on the same configuration can't
	// make progress; the depth bound turns that into a
	// diagnostic instead of a stack overflow.
	sys := NewSystem("deep")
	sys.MustRegister(&Rule{
		Name: "descend",
		When: app("c", sym("?x")),
		Premises: []*Premise{
			Step(app("c", sym("?x")), sym("?y")),
		},
		Then: sym("?y"),
	})

	e := NewEngine(sys)
	e.MaxPremiseDepth = 16

	_, err := e.Step(context.Background(), app("c", num(1)))
	var depth *PremiseDepthError
	if !errors.As(err, &depth) {
		t.Fatalf("expected *PremiseDepthError, got %T: %v", err, err)
	}
}

func TestUncompiledConditionRefuses(t *testing.T) {
	// A rule that declares condition source but was never
	// Compile()d must not fire as if it had no condition.
	sys := NewSystem("gated")
	sys.MustRegister(&Rule{
		Name: "gated",
		When: app("c", sym("?x")),
		ConditionSource: &ConditionSource{
			Source: "false",
		},
		Then: sym("?x"),
	})

	_, err := NewEngine(sys).Step(context.Background(), app("c", num(1)))
	if err == nil {
		t.Fatal("the rule fired despite its uncompiled condition")
	}
	if !errors.Is(err, ConditionNotCompiled) {
		t.Fatalf("expected ConditionNotCompiled, got %T: %v", err, err)
	}
	var bad *BadRuleError
	if !errors.As(err, &bad) || bad.Rule != "gated" {
		t.Fatalf("diagnostic doesn't name the rule: %v", err)
	}
}

func TestRunTimeoutDuringCondition(t *testing.T) {
	// An interpreter interrupted by the deadline reports its own
	// error, not the context's.  The run still stops as TimedOut.
	sys := NewSystem("slow")
	sys.MustRegister(&Rule{
		Name: "slow",
		When: app("c", sym("?x")),
		Condition: FuncCondition(func(ctx context.Context, bs match.Bindings) (match.Bindings, error) {
			<-ctx.Done()
			return nil, errors.New("interrupted")
		}),
		Then: sym("?x"),
	})

	w, err := NewEngine(sys).Run(context.Background(), app("c", num(1)), &Control{
		Limit:   10,
		Timeout: 10 * time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}
	if w.StoppedBecause != TimedOut {
		t.Fatalf("stopped because %s (err=%v)", w.StoppedBecause, w.Error)
	}
}

func TestConditionExtendsBindings(t *testing.T) {
	sys := NewSystem("compute")
	sys.MustRegister(&Rule{
		Name: "double",
		When: app("double", sym("?n")),
		Condition: FuncCondition(func(ctx context.Context, bs match.Bindings) (match.Bindings, error) {
			n, is := bs["?n"].(terms.Number)
			if !is {
				return nil, nil
			}
			return bs.Copy().Extend("?m", terms.Num(2*float64(n))), nil
		}),
		Binds: []string{"?m"},
		Then:  sym("?m"),
	})

	stride, err := NewEngine(sys).Step(context.Background(), app("double", num(21)))
	if err != nil {
		t.Fatal(err)
	}
	if !terms.Equal(stride.To, num(42)) {
		t.Fatalf("got %s", stride.To)
	}
}

func TestStepDeterministic(t *testing.T) {
	e := NewEngine(addSystem(t))
	initial := app("add", app("add", num(1), num(2)), num(4))

	first, err := e.Step(context.Background(), initial)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := e.Step(context.Background(), initial)
		if err != nil {
			t.Fatal(err)
		}
		if again.Rule != first.Rule || !terms.Equal(again.To, first.To) {
			t.Fatal("nondeterministic step")
		}
	}
}
