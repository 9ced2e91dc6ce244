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

package arith

import (
	"context"
	"testing"

	"github.com/rigorous-lang/rigorous/rules"
	"github.com/rigorous-lang/rigorous/terms"
)

func run(t *testing.T, src string) *rules.Walked {
	t.Helper()
	e, err := Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	eng := &rules.Engine{System: System()}
	w, err := eng.Run(context.Background(), e, nil)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func TestEvalExpressions(t *testing.T) {
	for _, c := range []struct {
		src  string
		want float64
	}{
		{"1 + 1", 2},
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"10 - 2 - 3", 5},
		{"12 / 4 / 3", 1},
		{"1 + 2 * (3 - 4)", -1},
		{"-3 + 5", 2},
		{"7", 7},
	} {
		t.Run(c.src, func(t *testing.T) {
			w := run(t, c.src)
			if w.StoppedBecause != rules.Done {
				t.Fatalf("stopped because %s", w.StoppedBecause)
			}
			if !terms.Equal(w.Final(), terms.Number(c.want)) {
				t.Fatalf("%s evaluated to %s", c.src, w.Final())
			}
		})
	}
}

func TestLeftToRight(t *testing.T) {
	// (1 + 2) + (3 + 4): the left operand finishes before the right
	// one starts.
	w := run(t, "(1 + 2) + (3 + 4)")
	if len(w.Strides) != 3 {
		t.Fatalf("expected 3 strides; got %d", len(w.Strides))
	}
	if w.Strides[0].Rule != "add-l" {
		t.Fatalf("first stride used %s", w.Strides[0].Rule)
	}
	if w.Strides[1].Rule != "add-r" {
		t.Fatalf("second stride used %s", w.Strides[1].Rule)
	}
	if w.Strides[2].Rule != "add-eval" {
		t.Fatalf("third stride used %s", w.Strides[2].Rule)
	}
}

func TestDivByZeroGetsStuck(t *testing.T) {
	w := run(t, "1 + 4 / 0")
	if w.StoppedBecause != rules.Done {
		t.Fatalf("stopped because %s", w.StoppedBecause)
	}
	// Stuck at (add 1 (div 4 0)): the div never steps, so neither
	// does the add around it.
	want := Sig.MustApp("add", terms.Number(1),
		Sig.MustApp("div", terms.Number(4), terms.Number(0)))
	if !terms.Equal(w.Final(), want) {
		t.Fatalf("final configuration %s", w.Final())
	}
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{"", "1 +", "(1 + 2", "1 ) 2", "x + 1", "1 2"} {
		if _, err := Parse(src); err == nil {
			t.Errorf("Parse(%q) should have failed", src)
		}
	}
}

func TestSignature(t *testing.T) {
	if _, err := Sig.App("add", terms.Number(1)); err == nil {
		t.Fatal("a unary add should be a shape error")
	}
	if _, err := Sig.App("mod", terms.Number(1), terms.Number(2)); err == nil {
		t.Fatal("an unknown sort should be an error")
	}
}
