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

package goja

import (
	"context"
	"testing"
	"time"

	"github.com/rigorous-lang/rigorous/match"
	"github.com/rigorous-lang/rigorous/rules"
	"github.com/rigorous-lang/rigorous/terms"
)

func exec(t *testing.T, src string, bs match.Bindings) (match.Bindings, error) {
	t.Helper()
	i := NewInterpreter()
	ctx := context.Background()
	compiled, err := i.Compile(ctx, src)
	if err != nil {
		return nil, err
	}
	return i.Exec(ctx, bs, src, compiled)
}

func TestExecTrue(t *testing.T) {
	bs := match.Bindings{"?l": terms.Number(1), "?r": terms.Number(2)}
	got, err := exec(t, "l < r", bs)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("condition should have held")
	}
	if len(got) != 2 {
		t.Fatalf("unexpected bindings %v", got)
	}
}

func TestExecFalse(t *testing.T) {
	bs := match.Bindings{"?l": terms.Number(3), "?r": terms.Number(2)}
	got, err := exec(t, "l < r", bs)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("condition shouldn't have held: %v", got)
	}
}

func TestExecExtends(t *testing.T) {
	bs := match.Bindings{"?l": terms.Number(2), "?r": terms.Number(3)}
	got, err := exec(t, "{sum: l + r}", bs)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("condition should have held")
	}
	sum, have := got["?sum"]
	if !have {
		t.Fatalf("no ?sum in %v", got)
	}
	if !terms.Equal(sum, terms.Number(5)) {
		t.Fatalf("bad sum %s", sum)
	}
	// The inputs survive.
	if !terms.Equal(got["?l"], terms.Number(2)) {
		t.Fatalf("lost ?l in %v", got)
	}
}

func TestExecDoesNotMutateInput(t *testing.T) {
	bs := match.Bindings{"?l": terms.Number(2), "?r": terms.Number(3)}
	if _, err := exec(t, "{sum: l + r}", bs); err != nil {
		t.Fatal(err)
	}
	if len(bs) != 2 {
		t.Fatalf("input bindings changed: %v", bs)
	}
}

func TestExecCompound(t *testing.T) {
	bs := match.Bindings{
		"?xs": terms.Seq{terms.Number(1), terms.Number(2), terms.Number(3)},
	}
	got, err := exec(t, "xs.length == 3 && xs[0] == 1", bs)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("condition should have held")
	}
}

func TestExecApp(t *testing.T) {
	bs := match.Bindings{
		"?e": terms.NewApp("add", terms.Number(1), terms.Number(2)),
	}
	got, err := exec(t, `e.sort == "add" && e.args.length == 2`, bs)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("condition should have held")
	}
}

func TestExecBadSource(t *testing.T) {
	i := NewInterpreter()
	if _, err := i.Compile(context.Background(), "l <"); err == nil {
		t.Fatal("compilation should have failed")
	}
}

func TestExecBadValue(t *testing.T) {
	if _, err := exec(t, "42", match.Bindings{}); err == nil {
		t.Fatal("a numeric condition value should be an error")
	}
}

func TestExecInterrupted(t *testing.T) {
	i := NewInterpreter()
	src := "(function() { for (;;) {} })()"
	compiled, err := i.Compile(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err = i.Exec(ctx, match.Bindings{}, src, compiled); err != Interrupted {
		t.Fatalf("expected Interrupted; got %v", err)
	}
}

func TestRunTimesOutInCondition(t *testing.T) {
	// The deadline fires while the condition is spinning.  The
	// interrupt surfaces as this package's error, but the run as a
	// whole is a timeout, not a rule-set bug.
	sys := rules.NewSystem("slow")
	sys.MustRegister(&rules.Rule{
		Name: "slow",
		When: terms.NewApp("c", terms.Sym("?x")),
		ConditionSource: &rules.ConditionSource{
			Source: "(function() { for (;;) {} })()",
		},
		Then: terms.Sym("?x"),
	})
	ctx := context.Background()
	if err := sys.Compile(ctx, nil, false); err != nil {
		t.Fatal(err)
	}

	w, err := rules.NewEngine(sys).Run(ctx, terms.NewApp("c", terms.Number(1)), &rules.Control{
		Limit:   10,
		Timeout: 50 * time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}
	if w.StoppedBecause != rules.TimedOut {
		t.Fatalf("stopped because %s (err=%v)", w.StoppedBecause, w.Error)
	}
}

func TestExecLazyCompile(t *testing.T) {
	i := NewInterpreter()
	got, err := i.Exec(context.Background(), match.Bindings{}, "true", nil)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("condition should have held")
	}
}
