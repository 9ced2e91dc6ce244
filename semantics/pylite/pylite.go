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

// Package pylite is a small-step semantics for a tiny imperative
// language: assignment, sequencing, if, while, and print.
//
// A configuration is conf[s, env, out]: the statement under execution,
// the environment as a mapping from names to values, and the output
// produced so far.  Statements step one at a time; expressions are
// evaluated in a single stride by the primitive ev operator.  The
// terminal statement is pass, so an execution is finished when its
// configuration is conf[pass, env, out] and stuck configurations with
// any other statement are errors, like reading an unassigned variable
// or branching on a number.
package pylite

import (
	"context"

	"github.com/rigorous-lang/rigorous/match"
	"github.com/rigorous-lang/rigorous/rules"
	"github.com/rigorous-lang/rigorous/terms"
)

// Sig declares the statement and expression sorts.
var Sig = terms.Signature{
	"conf":   3,
	"assign": 2,
	"seq":    2,
	"if":     3,
	"while":  2,
	"print":  1,
	"var":    1,
	"add":    2,
	"sub":    2,
	"mul":    2,
	"lt":     2,
	"eq":     2,
	"ev":     2,
	"store":  3,
	"append": 2,
}

// Pass is the terminal statement.
var Pass = terms.Sym("pass")

// NewConf wraps a statement in an initial configuration with an empty
// environment and no output.
func NewConf(stmt terms.Term) *terms.App {
	return Sig.MustApp("conf", stmt, terms.Map{}, terms.Seq{})
}

// Output extracts the printed values from a configuration.
func Output(conf terms.Term) []terms.Term {
	a, is := conf.(*terms.App)
	if !is || a.Sort != "conf" || len(a.Args) != 3 {
		return nil
	}
	out, is := a.Args[2].(terms.Seq)
	if !is {
		return nil
	}
	return out
}

// Env extracts the environment from a configuration.
func Env(conf terms.Term) terms.Map {
	a, is := conf.(*terms.App)
	if !is || a.Sort != "conf" || len(a.Args) != 3 {
		return nil
	}
	env, _ := a.Args[1].(terms.Map)
	return env
}

// Finished reports whether the configuration has run to completion.
func Finished(conf terms.Term) bool {
	a, is := conf.(*terms.App)
	return is && a.Sort == "conf" && len(a.Args) == 3 && terms.Equal(a.Args[0], Pass)
}

// IsValue reports whether the term is a runtime value.
func IsValue(t terms.Term) bool {
	switch t.(type) {
	case terms.Number, terms.Bool:
		return true
	}
	return false
}

// eval is the primitive expression evaluator.  A nil result means the
// expression has no value in the environment, which leaves the
// surrounding statement stuck.
func eval(e terms.Term, env terms.Map) terms.Term {
	switch v := e.(type) {
	case terms.Number, terms.Bool:
		return v
	case *terms.App:
		switch v.Sort {
		case "var":
			x, is := v.Args[0].(terms.Symbol)
			if !is {
				return nil
			}
			return env[string(x)]
		case "add", "sub", "mul", "lt", "eq":
			l := eval(v.Args[0], env)
			r := eval(v.Args[1], env)
			if v.Sort == "eq" {
				if l == nil || r == nil {
					return nil
				}
				return terms.Bool(terms.Equal(l, r))
			}
			a, is := l.(terms.Number)
			if !is {
				return nil
			}
			b, is := r.(terms.Number)
			if !is {
				return nil
			}
			switch v.Sort {
			case "add":
				return a + b
			case "sub":
				return a - b
			case "mul":
				return a * b
			case "lt":
				return terms.Bool(a < b)
			}
		}
	}
	return nil
}

func valueBound(vars ...string) rules.Condition {
	return rules.FuncCondition(func(ctx context.Context, bs match.Bindings) (match.Bindings, error) {
		for _, v := range vars {
			if !IsValue(bs[v]) {
				return nil, nil
			}
		}
		return bs, nil
	})
}

func isBool(b bool) rules.Condition {
	return rules.FuncCondition(func(ctx context.Context, bs match.Bindings) (match.Bindings, error) {
		if !terms.Equal(bs["?v"], terms.Bool(b)) {
			return nil, nil
		}
		return bs, nil
	})
}

// System builds the transition system for statements.
func System() *rules.System {
	s := rules.NewSystem("pylite")
	s.Doc = "Small-step execution of a tiny imperative language."

	s.Operator("ev", func(args []terms.Term) (terms.Term, error) {
		if len(args) != 2 {
			return nil, nil
		}
		env, is := args[1].(terms.Map)
		if !is {
			return nil, nil
		}
		return eval(args[0], env), nil
	})

	s.Operator("store", func(args []terms.Term) (terms.Term, error) {
		if len(args) != 3 {
			return nil, nil
		}
		env, is := args[0].(terms.Map)
		if !is {
			return nil, nil
		}
		x, is := args[1].(terms.Symbol)
		if !is {
			return nil, nil
		}
		acc := make(terms.Map, len(env)+1)
		for k, v := range env {
			acc[k] = v
		}
		acc[string(x)] = args[2]
		return acc, nil
	})

	s.Operator("append", func(args []terms.Term) (terms.Term, error) {
		if len(args) != 2 {
			return nil, nil
		}
		out, is := args[0].(terms.Seq)
		if !is {
			return nil, nil
		}
		acc := make(terms.Seq, 0, len(out)+1)
		acc = append(acc, out...)
		acc = append(acc, args[1])
		return acc, nil
	})

	s.MustRegister(&rules.Rule{
		Name: "assign",
		Doc:  "Evaluate the right-hand side and extend the environment.",
		When: terms.NewApp("conf",
			terms.NewApp("assign", terms.Sym("?x"), terms.Sym("?e")),
			terms.Sym("?env"), terms.Sym("?out")),
		Premises: []*rules.Premise{
			rules.Bind(
				terms.NewApp("ev", terms.Sym("?e"), terms.Sym("?env")),
				terms.Sym("?v")),
		},
		Condition: valueBound("?v"),
		Then: terms.NewApp("conf", Pass,
			terms.NewApp("store", terms.Sym("?env"), terms.Sym("?x"), terms.Sym("?v")),
			terms.Sym("?out")),
	})

	s.MustRegister(&rules.Rule{
		Name: "seq-done",
		Doc:  "Drop a finished first statement.",
		When: terms.NewApp("conf",
			terms.NewApp("seq", Pass, terms.Sym("?s2")),
			terms.Sym("?env"), terms.Sym("?out")),
		Then: terms.NewApp("conf", terms.Sym("?s2"), terms.Sym("?env"), terms.Sym("?out")),
	})

	s.MustRegister(&rules.Rule{
		Name: "seq-step",
		Doc:  "Step inside the first statement of a sequence.",
		When: terms.NewApp("conf",
			terms.NewApp("seq", terms.Sym("?s1"), terms.Sym("?s2")),
			terms.Sym("?env"), terms.Sym("?out")),
		Premises: []*rules.Premise{
			rules.Step(
				terms.NewApp("conf", terms.Sym("?s1"), terms.Sym("?env"), terms.Sym("?out")),
				terms.NewApp("conf", terms.Sym("?s1b"), terms.Sym("?env2"), terms.Sym("?out2"))),
		},
		Then: terms.NewApp("conf",
			terms.NewApp("seq", terms.Sym("?s1b"), terms.Sym("?s2")),
			terms.Sym("?env2"), terms.Sym("?out2")),
	})

	s.MustRegister(&rules.Rule{
		Name: "if-true",
		When: terms.NewApp("conf",
			terms.NewApp("if", terms.Sym("?e"), terms.Sym("?s1"), terms.Sym("?s2")),
			terms.Sym("?env"), terms.Sym("?out")),
		Premises: []*rules.Premise{
			rules.Bind(
				terms.NewApp("ev", terms.Sym("?e"), terms.Sym("?env")),
				terms.Sym("?v")),
		},
		Condition: isBool(true),
		Then:      terms.NewApp("conf", terms.Sym("?s1"), terms.Sym("?env"), terms.Sym("?out")),
	})

	s.MustRegister(&rules.Rule{
		Name: "if-false",
		When: terms.NewApp("conf",
			terms.NewApp("if", terms.Sym("?e"), terms.Sym("?s1"), terms.Sym("?s2")),
			terms.Sym("?env"), terms.Sym("?out")),
		Premises: []*rules.Premise{
			rules.Bind(
				terms.NewApp("ev", terms.Sym("?e"), terms.Sym("?env")),
				terms.Sym("?v")),
		},
		Condition: isBool(false),
		Then:      terms.NewApp("conf", terms.Sym("?s2"), terms.Sym("?env"), terms.Sym("?out")),
	})

	s.MustRegister(&rules.Rule{
		Name: "while",
		Doc:  "Unfold a loop into a conditional over its body.",
		When: terms.NewApp("conf",
			terms.NewApp("while", terms.Sym("?e"), terms.Sym("?s")),
			terms.Sym("?env"), terms.Sym("?out")),
		Then: terms.NewApp("conf",
			terms.NewApp("if", terms.Sym("?e"),
				terms.NewApp("seq", terms.Sym("?s"),
					terms.NewApp("while", terms.Sym("?e"), terms.Sym("?s"))),
				Pass),
			terms.Sym("?env"), terms.Sym("?out")),
	})

	s.MustRegister(&rules.Rule{
		Name: "print",
		When: terms.NewApp("conf",
			terms.NewApp("print", terms.Sym("?e")),
			terms.Sym("?env"), terms.Sym("?out")),
		Premises: []*rules.Premise{
			rules.Bind(
				terms.NewApp("ev", terms.Sym("?e"), terms.Sym("?env")),
				terms.Sym("?v")),
		},
		Condition: valueBound("?v"),
		Then: terms.NewApp("conf", Pass, terms.Sym("?env"),
			terms.NewApp("append", terms.Sym("?out"), terms.Sym("?v"))),
	})

	return s
}
