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

package ccs

import (
	"context"
	"testing"

	"github.com/rigorous-lang/rigorous/terms"
)

func transitions(t *testing.T, src string, limit int) []Transition {
	t.Helper()
	p, err := Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	ts, err := Run(context.Background(), p, limit)
	if err != nil {
		t.Fatal(err)
	}
	return ts
}

func actions(ts []Transition) []terms.Term {
	acc := make([]terms.Term, len(ts))
	for i, tr := range ts {
		acc[i] = tr.Action
	}
	return acc
}

func sameActions(got []terms.Term, want ...terms.Term) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if !terms.Equal(got[i], want[i]) {
			return false
		}
	}
	return true
}

func TestPrefixSequence(t *testing.T) {
	ts := transitions(t, "a.b.0", 10)
	if !sameActions(actions(ts), terms.Sym("a"), terms.Sym("b")) {
		t.Fatalf("observed %v", actions(ts))
	}
	if !terms.Equal(ts[len(ts)-1].Process, Stop) {
		t.Fatalf("residual %s", ts[len(ts)-1].Process)
	}
}

func TestChoiceCommits(t *testing.T) {
	ts := transitions(t, "a.c.0 + b.0", 10)
	// The left branch moves first, and choosing it discards the
	// right branch entirely.
	if !sameActions(actions(ts), terms.Sym("a"), terms.Sym("c")) {
		t.Fatalf("observed %v", actions(ts))
	}
}

func TestSynchronization(t *testing.T) {
	ts := transitions(t, "(a.0 | 'a.0) \\ a", 10)
	if !sameActions(actions(ts), Tau) {
		t.Fatalf("observed %v", actions(ts))
	}
}

func TestSynchronizationOutranksInterleaving(t *testing.T) {
	ts := transitions(t, "a.0 | 'a.0", 1)
	if !sameActions(actions(ts), Tau) {
		t.Fatalf("observed %v", actions(ts))
	}
}

func TestRestrictionBlocks(t *testing.T) {
	ts := transitions(t, "a.0 \\ a", 10)
	if len(ts) != 0 {
		t.Fatalf("observed %v", actions(ts))
	}
}

func TestRestrictionPassesOtherNames(t *testing.T) {
	ts := transitions(t, "b.0 \\ a", 10)
	if !sameActions(actions(ts), terms.Sym("b")) {
		t.Fatalf("observed %v", actions(ts))
	}
}

func TestRecursionUnfolds(t *testing.T) {
	ts := transitions(t, "fix X. a.X", 3)
	if !sameActions(actions(ts), terms.Sym("a"), terms.Sym("a"), terms.Sym("a")) {
		t.Fatalf("observed %v", actions(ts))
	}
}

func TestRecursionThroughParallel(t *testing.T) {
	// A one-place buffer talking to itself forever.
	ts := transitions(t, "((fix X. a.'b.X) | (fix Y. 'a.b.Y)) \\ a \\ b", 4)
	if !sameActions(actions(ts), Tau, Tau, Tau, Tau) {
		t.Fatalf("observed %v", actions(ts))
	}
}

func TestSubstShadowing(t *testing.T) {
	inner := terms.NewApp("fix", terms.Sym("X"),
		terms.NewApp("prefix", terms.Sym("a"), terms.Sym("X")))
	got := subst(inner, terms.Sym("X"), Stop)
	if !terms.Equal(got, inner) {
		t.Fatalf("inner binder rewritten: %s", got)
	}
}

func TestCo(t *testing.T) {
	a := terms.Sym("a")
	if !terms.Equal(Co(Co(a)), a) {
		t.Fatal("Co should be an involution")
	}
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{"", "a.", "a..0", "(a.0", "0 +", "\\ a", "fix . 0", "'.0"} {
		if _, err := Parse(src); err == nil {
			t.Errorf("Parse(%q) should have failed", src)
		}
	}
}
