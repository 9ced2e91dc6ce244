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

// Package tools has some utilities for working with transition
// systems: static analysis, derivation rendering, and HTML docs.
package tools

import (
	"fmt"
	"sort"

	"github.com/rigorous-lang/rigorous/match"
	"github.com/rigorous-lang/rigorous/rules"
)

// SystemAnalysis reports on the structure of a transition system.
type SystemAnalysis struct {
	system *rules.System

	Errors     []string
	RuleCount  int
	Premises   int
	Conditions int

	// WildcardRules match any configuration at all, which defeats
	// candidate filtering.
	WildcardRules []string

	// UnboundConclusions maps a rule name to conclusion variables
	// that no pattern, premise result, or declared bind can supply.
	// Such a rule will fail at runtime whenever it otherwise
	// applies.
	UnboundConclusions map[string][]string

	// UnboundQueries is the same defect in premise queries.
	UnboundQueries map[string][]string

	// DuplicateNames lists rule names registered more than once.
	DuplicateNames []string

	// Shadowed lists rules that can never fire because an earlier
	// rule with the same pattern, no premises, and no condition
	// always wins.
	Shadowed []string

	// Interpreters lists the side-condition interpreters the
	// system's rules call for.
	Interpreters []string
}

// Analyze inspects every rule of the system.
func Analyze(s *rules.System) (*SystemAnalysis, error) {
	a := SystemAnalysis{
		system:             s,
		Errors:             make([]string, 0, 8),
		UnboundConclusions: make(map[string][]string),
		UnboundQueries:     make(map[string][]string),
	}

	rs := s.Rules()
	a.RuleCount = len(rs)

	names := make(map[string]int)
	interpreters := make(map[string]bool)
	duplicates := make(map[string]bool)

	var unconditional []*rules.Rule

	for _, r := range rs {
		names[r.Name]++
		if 1 < names[r.Name] {
			duplicates[r.Name] = true
		}

		if match.IsVariable(r.When) {
			a.WildcardRules = append(a.WildcardRules, r.Name)
		}

		a.Premises += len(r.Premises)
		if r.Condition != nil || r.ConditionSource != nil {
			a.Conditions++
		}
		if r.ConditionSource != nil {
			name := r.ConditionSource.Interpreter
			if name == "" {
				name = "goja"
			}
			interpreters[name] = true
		}

		bound := match.Variables(r.When)
		for _, b := range r.Binds {
			if len(b) == 0 || b[0] != '?' {
				b = "?" + b
			}
			bound[b] = true
		}
		for i, p := range r.Premises {
			var free []string
			for v := range match.Variables(p.Query) {
				if !bound[v] {
					free = append(free, v)
				}
			}
			if 0 < len(free) {
				sort.Strings(free)
				a.UnboundQueries[r.Name] = append(a.UnboundQueries[r.Name], free...)
				a.Errors = append(a.Errors,
					fmt.Sprintf("rule %s premise %d query uses unbound %v", r.Name, i, free))
			}
			for v := range match.Variables(p.Result) {
				bound[v] = true
			}
		}

		var free []string
		for v := range match.Variables(r.Then) {
			if !bound[v] {
				free = append(free, v)
			}
		}
		if 0 < len(free) {
			sort.Strings(free)
			a.UnboundConclusions[r.Name] = free
			a.Errors = append(a.Errors,
				fmt.Sprintf("rule %s conclusion uses unbound %v", r.Name, free))
		}

		for _, winner := range unconditional {
			if winner.When.String() == r.When.String() {
				a.Shadowed = append(a.Shadowed, r.Name)
				a.Errors = append(a.Errors,
					fmt.Sprintf("rule %s is shadowed by %s", r.Name, winner.Name))
				break
			}
		}
		if len(r.Premises) == 0 && r.Condition == nil && r.ConditionSource == nil {
			unconditional = append(unconditional, r)
		}
	}

	a.DuplicateNames = keys(duplicates)
	a.Interpreters = keys(interpreters)
	for name := range duplicates {
		a.Errors = append(a.Errors, fmt.Sprintf("rule name %s registered %d times", name, names[name]))
	}

	return &a, nil
}

func keys(m map[string]bool) []string {
	acc := make([]string, 0, len(m))
	for k := range m {
		acc = append(acc, k)
	}
	sort.Strings(acc)
	return acc
}
