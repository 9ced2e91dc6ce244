/* Copyright 2020 The Rigorous Authors
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package terms provides the structured values that inference rules
// pattern-match against.
//
// A Term is one of: an atomic literal (Number, String, Bool, Symbol),
// an ordered Seq of Terms, a keyed Map of Terms, or an App, which is
// a named constructor applied to ordered argument Terms.  Terms are
// immutable by convention: nothing in this repository mutates a Term
// after construction, and callers shouldn't either.
package terms

import (
	"sort"
	"strconv"
	"strings"
)

// Term is a structured value: a literal, a sequence, a mapping, or a
// constructor application.
//
// The concrete types are Number, String, Bool, Symbol, Seq, Map, and
// *App.  Nothing else implements Term.
type Term interface {
	// String renders the Term in its canonical display form.
	String() string

	isTerm()
}

// Number is a numeric literal.
//
// All numbers are float64s, which is what you get when you read JSON
// or YAML anyway.
type Number float64

// String is a string literal (as opposed to a Symbol).
type String string

// Bool is a boolean literal.
type Bool bool

// Symbol is an identifier-like atom.
//
// The match package treats Symbols starting with '?' as pattern
// variables.
type Symbol string

// Seq is an ordered sequence of Terms.
type Seq []Term

// Map is a keyed mapping from identifiers to Terms.
type Map map[string]Term

// App is a constructor application: a sort name applied to ordered
// arguments.  An AST node or a configuration tuple is an App.
type App struct {
	Sort string
	Args []Term
}

func (Number) isTerm() {}
func (String) isTerm() {}
func (Bool) isTerm()   {}
func (Symbol) isTerm() {}
func (Seq) isTerm()    {}
func (Map) isTerm()    {}
func (*App) isTerm()   {}

// NewApp makes a constructor application without consulting any
// Signature.  See Signature.App for arity-checked construction.
func NewApp(sort string, args ...Term) *App {
	return &App{
		Sort: sort,
		Args: args,
	}
}

// Num is sugar for Number(n).
func Num(n float64) Number {
	return Number(n)
}

// Sym is sugar for Symbol(s).
func Sym(s string) Symbol {
	return Symbol(s)
}

func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}

func (s String) String() string {
	return strconv.Quote(string(s))
}

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

func (s Symbol) String() string {
	return string(s)
}

func (s Seq) String() string {
	acc := make([]string, len(s))
	for i, t := range s {
		acc[i] = render(t, 0)
	}
	return "(" + strings.Join(acc, " ") + ")"
}

func (m Map) String() string {
	return render(m, 0)
}

func (a *App) String() string {
	return render(a, 0)
}

// DepthLimit bounds recursion during Equal and String.
//
// A Term that honestly nests this deep is almost certainly a cycle
// that somebody constructed on purpose.  Rather than looping forever,
// rendering truncates and Equal reports an error via CheckedEqual.
var DepthLimit = 10000

func render(t Term, depth int) string {
	if DepthLimit <= depth {
		return "..."
	}
	switch v := t.(type) {
	case Seq:
		acc := make([]string, len(v))
		for i, e := range v {
			acc[i] = render(e, depth+1)
		}
		return "(" + strings.Join(acc, " ") + ")"
	case Map:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		acc := make([]string, len(keys))
		for i, k := range keys {
			acc[i] = k + ": " + render(v[k], depth+1)
		}
		return "{" + strings.Join(acc, ", ") + "}"
	case *App:
		if len(v.Args) == 0 {
			return v.Sort
		}
		acc := make([]string, len(v.Args))
		for i, a := range v.Args {
			acc[i] = render(a, depth+1)
		}
		return v.Sort + "[" + strings.Join(acc, ", ") + "]"
	default:
		return t.String()
	}
}

// DepthExceeded is reported by CheckedEqual when comparison recurses
// past DepthLimit, which indicates a cyclic (or absurd) Term.
type DepthExceeded struct {
	Limit int
}

func (e *DepthExceeded) Error() string {
	return "term depth limit (" + strconv.Itoa(e.Limit) + ") exceeded; cyclic term?"
}

// Equal reports deep structural equality of two Terms.
//
// A comparison that exceeds DepthLimit reports false.  Use
// CheckedEqual to distinguish that case.
func Equal(a, b Term) bool {
	eq, err := equal(a, b, 0)
	return err == nil && eq
}

// CheckedEqual is Equal that also reports a *DepthExceeded error when
// the comparison ran into the depth limit (see DepthLimit).
func CheckedEqual(a, b Term) (bool, error) {
	return equal(a, b, 0)
}

func equal(a, b Term, depth int) (bool, error) {
	if DepthLimit <= depth {
		return false, &DepthExceeded{DepthLimit}
	}
	switch x := a.(type) {
	case Number:
		y, is := b.(Number)
		return is && x == y, nil
	case String:
		y, is := b.(String)
		return is && x == y, nil
	case Bool:
		y, is := b.(Bool)
		return is && x == y, nil
	case Symbol:
		y, is := b.(Symbol)
		return is && x == y, nil
	case Seq:
		y, is := b.(Seq)
		if !is || len(x) != len(y) {
			return false, nil
		}
		for i, e := range x {
			eq, err := equal(e, y[i], depth+1)
			if err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	case Map:
		y, is := b.(Map)
		if !is || len(x) != len(y) {
			return false, nil
		}
		for k, v := range x {
			w, have := y[k]
			if !have {
				return false, nil
			}
			eq, err := equal(v, w, depth+1)
			if err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	case *App:
		y, is := b.(*App)
		if !is || x.Sort != y.Sort || len(x.Args) != len(y.Args) {
			return false, nil
		}
		for i, e := range x.Args {
			eq, err := equal(e, y.Args[i], depth+1)
			if err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	case nil:
		return b == nil, nil
	default:
		return false, nil
	}
}

// Copy makes a deep copy of a Term.
//
// Since Terms are immutable by convention, you rarely need this.  The
// YAML loader uses it to sever aliases.
func Copy(t Term) Term {
	switch v := t.(type) {
	case Seq:
		acc := make(Seq, len(v))
		for i, e := range v {
			acc[i] = Copy(e)
		}
		return acc
	case Map:
		acc := make(Map, len(v))
		for k, e := range v {
			acc[k] = Copy(e)
		}
		return acc
	case *App:
		args := make([]Term, len(v.Args))
		for i, a := range v.Args {
			args[i] = Copy(a)
		}
		return &App{Sort: v.Sort, Args: args}
	default:
		return t
	}
}
