package rules

import (
	"context"
	"strings"
	"testing"

	"github.com/rigorous-lang/rigorous/match"
	"github.com/rigorous-lang/rigorous/terms"
)

var countdownYAML = `
name: countdown
doc: |
  Counts a number down to zero, one step at a time.
rules:
  - name: count-zero
    doc: Zero is replaced by the symbol done.
    when: {sort: count, args: [0]}
    then: done
  - name: count-down
    when: {sort: count, args: ["?n"]}
    condition:
      interpreter: test
      source: positive
    binds: ["?m"]
    then: {sort: count, args: ["?m"]}
`

// testInterpreter implements the one condition the YAML above needs,
// without dragging a real interpreter into this package's tests.
type testInterpreter struct{}

func (i testInterpreter) Compile(ctx context.Context, src string) (interface{}, error) {
	return src, nil
}

func (i testInterpreter) Exec(ctx context.Context, bs match.Bindings, src string, compiled interface{}) (match.Bindings, error) {
	n, is := bs["?n"].(terms.Number)
	if !is || n <= 0 {
		return nil, nil
	}
	return bs.Copy().Extend("?m", terms.Num(float64(n)-1)), nil
}

func TestLoadYAML(t *testing.T) {
	sys, err := Load([]byte(countdownYAML))
	if err != nil {
		t.Fatal(err)
	}
	if sys.Name != "countdown" {
		t.Fatalf("name %q", sys.Name)
	}
	if len(sys.Rules()) != 2 {
		t.Fatalf("%d rules", len(sys.Rules()))
	}

	ctx := context.Background()
	interpreters := map[string]Interpreter{"test": testInterpreter{}}
	if err := sys.Compile(ctx, interpreters, true); err != nil {
		t.Fatal(err)
	}

	w, err := NewEngine(sys).Run(ctx, terms.NewApp("count", terms.Num(3)), nil)
	if err != nil {
		t.Fatal(err)
	}
	if w.StoppedBecause != Done {
		t.Fatalf("stopped because %s", w.StoppedBecause)
	}
	// count[3] count[2] count[1] count[0] done
	if len(w.Trace) != 5 {
		t.Fatalf("trace has %d configurations", len(w.Trace))
	}
	if !terms.Equal(w.Final(), terms.Sym("done")) {
		t.Fatalf("final %s", w.Final())
	}
}

func TestLoadMissingInterpreter(t *testing.T) {
	sys, err := Load([]byte(countdownYAML))
	if err != nil {
		t.Fatal(err)
	}
	err = sys.Compile(context.Background(), map[string]Interpreter{}, true)
	if err == nil {
		t.Fatal("expected InterpreterNotFound")
	}
	if !strings.Contains(err.Error(), "interpreter not found") {
		t.Fatalf("got %v", err)
	}
}

func TestFromValue(t *testing.T) {
	for _, c := range []struct {
		in   interface{}
		want terms.Term
	}{
		{42, terms.Num(42)},
		{true, terms.Bool(true)},
		{"foo", terms.Sym("foo")},
		{"?x", terms.Sym("?x")},
		{
			map[interface{}]interface{}{"str": "hello"},
			terms.String("hello"),
		},
		{
			[]interface{}{1, "a"},
			terms.Seq{terms.Num(1), terms.Sym("a")},
		},
		{
			map[interface{}]interface{}{
				"sort": "add",
				"args": []interface{}{"?l", "?r"},
			},
			terms.NewApp("add", terms.Sym("?l"), terms.Sym("?r")),
		},
		{
			map[interface{}]interface{}{
				"map": map[interface{}]interface{}{"k": 1},
			},
			terms.Map{"k": terms.Num(1)},
		},
	} {
		got, err := FromValue(c.in)
		if err != nil {
			t.Fatalf("%v: %v", c.in, err)
		}
		if !terms.Equal(got, c.want) {
			t.Fatalf("%v: got %s, want %s", c.in, got, c.want)
		}
	}

	if _, err := FromValue(map[interface{}]interface{}{"bogus": 1}); err == nil {
		t.Fatal("expected an error for an untagged mapping")
	}
}

func TestLoadBadPremise(t *testing.T) {
	bad := `
name: broken
rules:
  - name: no-query
    when: "?x"
    premises:
      - result: "?y"
    then: "?y"
`
	if _, err := Load([]byte(bad)); err == nil {
		t.Fatal("expected an error for a query-less premise")
	}
}
