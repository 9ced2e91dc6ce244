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

// Package ccs is a semantics for Milner's Calculus of Communicating
// Systems.
//
// A CCS transition carries an action label, but the transition system
// here steps plain configurations.  So a step away from a process
// lands on (tagged a P'): the action paired with the residual process.
// Run drives the system, unwrapping a tag at every stride to recover
// the sequence of actions.
//
// Synchronization outranks interleaving: when both components of a
// parallel composition can immediately take complementary actions, the
// par-sync rule fires first and the observed action is tau.  Since the
// first full derivation wins, a process makes at most one transition
// per stride even when several would be possible.
package ccs

import (
	"context"
	"fmt"

	"github.com/rigorous-lang/rigorous/match"
	"github.com/rigorous-lang/rigorous/rules"
	"github.com/rigorous-lang/rigorous/terms"
)

// Sig declares the process sorts.
//
// An action is a Symbol, the Symbol tau, or (co a) for the
// complementary action 'a.  Stop is the inert process, usually written
// 0.
var Sig = terms.Signature{
	"prefix":   2,
	"sum":      2,
	"par":      2,
	"restrict": 2,
	"fix":      2,
	"co":       1,
	"tagged":   2,
	"subst":    3,
}

var (
	Stop = terms.Sym("stop")
	Tau  = terms.Sym("tau")
)

// Co complements an action: Co(a) is 'a, and Co('a) is a.  Tau has no
// complement.
func Co(act terms.Term) terms.Term {
	if a, is := act.(*terms.App); is && a.Sort == "co" {
		return a.Args[0]
	}
	return terms.NewApp("co", act)
}

func complementary(a, b terms.Term) bool {
	if terms.Equal(a, Tau) || terms.Equal(b, Tau) {
		return false
	}
	return terms.Equal(Co(a), b)
}

// subst replaces the process variable x with r throughout p, stopping
// at any inner fix that rebinds x.
func subst(p, x, r terms.Term) terms.Term {
	switch v := p.(type) {
	case terms.Symbol:
		if terms.Equal(v, x) {
			return r
		}
		return v
	case *terms.App:
		if v.Sort == "fix" && terms.Equal(v.Args[0], x) {
			return v
		}
		args := make([]terms.Term, len(v.Args))
		for i, a := range v.Args {
			if v.Sort == "prefix" && i == 0 {
				// Action position; actions have no
				// process variables.
				args[i] = a
				continue
			}
			args[i] = subst(a, x, r)
		}
		return terms.NewApp(v.Sort, args...)
	default:
		return p
	}
}

// System builds the CCS transition system.
func System() *rules.System {
	s := rules.NewSystem("ccs")
	s.Doc = "Labelled transitions for CCS, with labels folded into tagged results."

	s.Operator("subst", func(args []terms.Term) (terms.Term, error) {
		if len(args) != 3 {
			return nil, nil
		}
		return subst(args[0], args[1], args[2]), nil
	})

	s.MustRegister(&rules.Rule{
		Name: "act",
		Doc:  "A prefix takes its action.",
		When: terms.NewApp("prefix", terms.Sym("?a"), terms.Sym("?P")),
		Then: terms.NewApp("tagged", terms.Sym("?a"), terms.Sym("?P")),
	})

	s.MustRegister(&rules.Rule{
		Name: "par-sync",
		Doc:  "Complementary actions on the two sides synchronize as tau.",
		When: terms.NewApp("par", terms.Sym("?P"), terms.Sym("?Q")),
		Premises: []*rules.Premise{
			rules.Step(terms.Sym("?P"),
				terms.NewApp("tagged", terms.Sym("?a"), terms.Sym("?P2"))),
			rules.Step(terms.Sym("?Q"),
				terms.NewApp("tagged", terms.Sym("?b"), terms.Sym("?Q2"))),
		},
		Condition: rules.FuncCondition(func(ctx context.Context, bs match.Bindings) (match.Bindings, error) {
			if !complementary(bs["?a"], bs["?b"]) {
				return nil, nil
			}
			return bs, nil
		}),
		Then: terms.NewApp("tagged", Tau,
			terms.NewApp("par", terms.Sym("?P2"), terms.Sym("?Q2"))),
	})

	s.MustRegister(&rules.Rule{
		Name: "par-l",
		When: terms.NewApp("par", terms.Sym("?P"), terms.Sym("?Q")),
		Premises: []*rules.Premise{
			rules.Step(terms.Sym("?P"),
				terms.NewApp("tagged", terms.Sym("?a"), terms.Sym("?P2"))),
		},
		Then: terms.NewApp("tagged", terms.Sym("?a"),
			terms.NewApp("par", terms.Sym("?P2"), terms.Sym("?Q"))),
	})

	s.MustRegister(&rules.Rule{
		Name: "par-r",
		When: terms.NewApp("par", terms.Sym("?P"), terms.Sym("?Q")),
		Premises: []*rules.Premise{
			rules.Step(terms.Sym("?Q"),
				terms.NewApp("tagged", terms.Sym("?a"), terms.Sym("?Q2"))),
		},
		Then: terms.NewApp("tagged", terms.Sym("?a"),
			terms.NewApp("par", terms.Sym("?P"), terms.Sym("?Q2"))),
	})

	s.MustRegister(&rules.Rule{
		Name: "sum-l",
		Doc:  "Choice commits to whichever side moves.",
		When: terms.NewApp("sum", terms.Sym("?P"), terms.Sym("?Q")),
		Premises: []*rules.Premise{
			rules.Step(terms.Sym("?P"),
				terms.NewApp("tagged", terms.Sym("?a"), terms.Sym("?P2"))),
		},
		Then: terms.NewApp("tagged", terms.Sym("?a"), terms.Sym("?P2")),
	})

	s.MustRegister(&rules.Rule{
		Name: "sum-r",
		When: terms.NewApp("sum", terms.Sym("?P"), terms.Sym("?Q")),
		Premises: []*rules.Premise{
			rules.Step(terms.Sym("?Q"),
				terms.NewApp("tagged", terms.Sym("?a"), terms.Sym("?Q2"))),
		},
		Then: terms.NewApp("tagged", terms.Sym("?a"), terms.Sym("?Q2")),
	})

	s.MustRegister(&rules.Rule{
		Name: "restrict",
		Doc:  "A restricted name and its complement cannot escape.",
		When: terms.NewApp("restrict", terms.Sym("?P"), terms.Sym("?n")),
		Premises: []*rules.Premise{
			rules.Step(terms.Sym("?P"),
				terms.NewApp("tagged", terms.Sym("?a"), terms.Sym("?P2"))),
		},
		Condition: rules.FuncCondition(func(ctx context.Context, bs match.Bindings) (match.Bindings, error) {
			a, n := bs["?a"], bs["?n"]
			if terms.Equal(a, n) || terms.Equal(a, Co(n)) {
				return nil, nil
			}
			return bs, nil
		}),
		Then: terms.NewApp("tagged", terms.Sym("?a"),
			terms.NewApp("restrict", terms.Sym("?P2"), terms.Sym("?n"))),
	})

	s.MustRegister(&rules.Rule{
		Name: "fix",
		Doc:  "A recursive process moves as its unfolding does.",
		When: terms.NewApp("fix", terms.Sym("?X"), terms.Sym("?P")),
		Premises: []*rules.Premise{
			rules.Step(
				terms.NewApp("subst", terms.Sym("?P"), terms.Sym("?X"),
					terms.NewApp("fix", terms.Sym("?X"), terms.Sym("?P"))),
				terms.NewApp("tagged", terms.Sym("?a"), terms.Sym("?P2"))),
		},
		Then: terms.NewApp("tagged", terms.Sym("?a"), terms.Sym("?P2")),
	})

	return s
}

// A Transition is one observed move of a process.
type Transition struct {
	Action  terms.Term
	Process terms.Term
}

// Run drives a process for at most limit transitions, unwrapping the
// tagged results into (action, residual) pairs.  It returns early when
// the process can no longer move.
func Run(ctx context.Context, p terms.Term, limit int) ([]Transition, error) {
	eng := &rules.Engine{System: System()}
	var acc []Transition
	for i := 0; i < limit; i++ {
		stride, err := eng.Step(ctx, p)
		if err != nil {
			return acc, err
		}
		if stride.Stuck() {
			return acc, nil
		}
		tag, is := stride.To.(*terms.App)
		if !is || tag.Sort != "tagged" || len(tag.Args) != 2 {
			return acc, fmt.Errorf("untagged transition to %s", stride.To)
		}
		acc = append(acc, Transition{Action: tag.Args[0], Process: tag.Args[1]})
		p = tag.Args[1]
	}
	return acc, nil
}
