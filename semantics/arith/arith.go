/* Copyright 2020 The Rigorous Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package arith is a small-step semantics for binary arithmetic
// expressions, with left-to-right evaluation order.
//
// An expression either is a number or applies one of the sorts add,
// sub, mul, or div to two subexpressions.  The congruence rules step
// the left operand to a value first, then the right one, and a final
// rule per sort hands two values to a primitive operator.  Division by
// zero has no applicable operator, so the configuration gets stuck.
package arith

import (
	"context"

	"github.com/rigorous-lang/rigorous/match"
	"github.com/rigorous-lang/rigorous/rules"
	"github.com/rigorous-lang/rigorous/terms"
)

// Sig declares the expression sorts.
var Sig = terms.Signature{
	"add": 2,
	"sub": 2,
	"mul": 2,
	"div": 2,
}

// ops maps an expression sort to its primitive operator.  The
// primitives only ever occur in computed conclusions, never in source
// expressions, which keeps the congruence rules small-step.
var ops = []struct {
	sort string
	prim string
	fn   func(a, b float64) (float64, bool)
}{
	{"add", "+", func(a, b float64) (float64, bool) { return a + b, true }},
	{"sub", "-", func(a, b float64) (float64, bool) { return a - b, true }},
	{"mul", "*", func(a, b float64) (float64, bool) { return a * b, true }},
	{"div", "/", func(a, b float64) (float64, bool) {
		if b == 0 {
			return 0, false
		}
		return a / b, true
	}},
}

// IsValue reports whether the expression is fully evaluated.
func IsValue(t terms.Term) bool {
	_, is := t.(terms.Number)
	return is
}

func numbersBound(vars ...string) rules.Condition {
	return rules.FuncCondition(func(ctx context.Context, bs match.Bindings) (match.Bindings, error) {
		for _, v := range vars {
			if !IsValue(bs[v]) {
				return nil, nil
			}
		}
		return bs, nil
	})
}

// divisible additionally refuses a zero divisor, so division by zero
// leaves the div configuration stuck rather than stepping to an
// unevaluated primitive.
func divisible(ctx context.Context, bs match.Bindings) (match.Bindings, error) {
	if !IsValue(bs["?n1"]) || !IsValue(bs["?n2"]) {
		return nil, nil
	}
	if bs["?n2"].(terms.Number) == 0 {
		return nil, nil
	}
	return bs, nil
}

// System builds the arithmetic transition system.
func System() *rules.System {
	s := rules.NewSystem("arith")
	s.Doc = "Left-to-right small-step evaluation of binary arithmetic."

	for _, op := range ops {
		fn := op.fn
		s.Operator(op.prim, func(args []terms.Term) (terms.Term, error) {
			if len(args) != 2 {
				return nil, nil
			}
			a, is := args[0].(terms.Number)
			if !is {
				return nil, nil
			}
			b, is := args[1].(terms.Number)
			if !is {
				return nil, nil
			}
			n, ok := fn(float64(a), float64(b))
			if !ok {
				return nil, nil
			}
			return terms.Number(n), nil
		})

		s.MustRegister(&rules.Rule{
			Name: op.sort + "-l",
			Doc:  "Step the left operand.",
			When: terms.NewApp(op.sort, terms.Sym("?l"), terms.Sym("?r")),
			Premises: []*rules.Premise{
				rules.Step(terms.Sym("?l"), terms.Sym("?l2")),
			},
			Then: terms.NewApp(op.sort, terms.Sym("?l2"), terms.Sym("?r")),
		})

		s.MustRegister(&rules.Rule{
			Name:      op.sort + "-r",
			Doc:       "Step the right operand once the left one is a value.",
			When:      terms.NewApp(op.sort, terms.Sym("?n"), terms.Sym("?r")),
			Condition: numbersBound("?n"),
			Premises: []*rules.Premise{
				rules.Step(terms.Sym("?r"), terms.Sym("?r2")),
			},
			Then: terms.NewApp(op.sort, terms.Sym("?n"), terms.Sym("?r2")),
		})

		evalCond := numbersBound("?n1", "?n2")
		if op.sort == "div" {
			evalCond = rules.FuncCondition(divisible)
		}
		s.MustRegister(&rules.Rule{
			Name:      op.sort + "-eval",
			Doc:       "Apply the primitive operator to two values.",
			When:      terms.NewApp(op.sort, terms.Sym("?n1"), terms.Sym("?n2")),
			Condition: evalCond,
			Then:      terms.NewApp(op.prim, terms.Sym("?n1"), terms.Sym("?n2")),
		})
	}

	return s
}
