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

// Package goja evaluates rule side-conditions written as ECMAScript
// expressions, using github.com/dop251/goja.
package goja

import (
	"context"
	"errors"
	"fmt"

	"github.com/dop251/goja"

	"github.com/rigorous-lang/rigorous/match"
	"github.com/rigorous-lang/rigorous/rules"
	"github.com/rigorous-lang/rigorous/terms"
)

var (
	// InterruptedMessage is the string value of Interrupted.
	InterruptedMessage = "RuntimeError: timeout"

	// Interrupted is returned by Exec if the evaluation is
	// interrupted (typically by context cancellation).
	Interrupted = errors.New(InterruptedMessage)
)

func init() {
	rules.DefaultInterpreters["goja"] = NewInterpreter()
}

// Interpreter evaluates a condition source as a single ECMAScript
// expression.
//
// Each binding is exposed to the expression as a global variable named
// after the rule variable with the leading '?' removed, so a rule that
// binds ?l and ?r can have the condition "l < r".
//
// The expression's value decides the condition:
//
//	false, null, undefined: the condition fails.
//	true: the condition holds with the bindings unchanged.
//	an object: the condition holds, and each property "x: v" extends
//	  the bindings with ?x bound to v.
//
// Anything else is an error.
type Interpreter struct {
}

func NewInterpreter() *Interpreter {
	return &Interpreter{}
}

// Compile implements the rules.Interpreter method of the same name.
//
// The source must be a single expression, so we wrap it in parentheses
// before handing it to goja.  Among other things, that wrapping lets an
// object literal like {sum: l + r} stand on its own.
func (i *Interpreter) Compile(ctx context.Context, src string) (interface{}, error) {
	p, err := goja.Compile("", "("+src+"\n)", true)
	if err != nil {
		return nil, errors.New(err.Error() + ": " + src)
	}
	return p, nil
}

// Exec implements the rules.Interpreter method of the same name.
func (i *Interpreter) Exec(ctx context.Context, bs match.Bindings, src string, compiled interface{}) (match.Bindings, error) {
	if compiled == nil {
		var err error
		if compiled, err = i.Compile(ctx, src); err != nil {
			return nil, err
		}
	}
	p, is := compiled.(*goja.Program)
	if !is {
		return nil, fmt.Errorf("bad compilation: %T %#v", compiled, compiled)
	}

	o := goja.New()
	for v, t := range bs {
		o.Set(match.VarName(v), termToJS(t))
	}

	// We want to make sure that the following goroutine is
	// terminated as soon as possible.
	ictx, cancel := context.WithCancel(ctx)
	go func() {
		<-ictx.Done()
		// If this Exec method calls cancel() after RunProgram
		// returns, then we'll never see this
		// InterruptedMessage, which is actually the behavior
		// we want.  In that case, we weren't interrupted.
		o.Interrupt(InterruptedMessage)
	}()

	v, err := o.RunProgram(p)
	cancel()

	if err != nil {
		if _, is := err.(*goja.InterruptedError); is {
			return nil, Interrupted
		}
		return nil, err
	}

	switch x := v.Export().(type) {
	case nil:
		return nil, nil
	case bool:
		if !x {
			return nil, nil
		}
		return bs.Copy(), nil
	case map[string]interface{}:
		acc := bs.Copy()
		for k, jv := range x {
			t, err := termFromJS(jv)
			if err != nil {
				return nil, fmt.Errorf("condition result %s: %w", k, err)
			}
			acc["?"+k] = t
		}
		return acc, nil
	default:
		return nil, fmt.Errorf("condition value %#v (%T) isn't boolean or an object", x, x)
	}
}

// termToJS converts a term to a value goja can expose as a global.
//
// An application becomes an object with "sort" and "args" properties.
func termToJS(t terms.Term) interface{} {
	switch x := t.(type) {
	case terms.Number:
		return float64(x)
	case terms.String:
		return string(x)
	case terms.Bool:
		return bool(x)
	case terms.Symbol:
		return string(x)
	case terms.Seq:
		acc := make([]interface{}, len(x))
		for i, e := range x {
			acc[i] = termToJS(e)
		}
		return acc
	case terms.Map:
		acc := make(map[string]interface{}, len(x))
		for k, v := range x {
			acc[k] = termToJS(v)
		}
		return acc
	case *terms.App:
		args := make([]interface{}, len(x.Args))
		for i, a := range x.Args {
			args[i] = termToJS(a)
		}
		return map[string]interface{}{
			"sort": x.Sort,
			"args": args,
		}
	default:
		return nil
	}
}

func termFromJS(x interface{}) (terms.Term, error) {
	switch v := x.(type) {
	case bool:
		return terms.Bool(v), nil
	case int64:
		return terms.Number(v), nil
	case float64:
		return terms.Number(v), nil
	case string:
		return terms.String(v), nil
	case []interface{}:
		acc := make(terms.Seq, len(v))
		for i, e := range v {
			t, err := termFromJS(e)
			if err != nil {
				return nil, err
			}
			acc[i] = t
		}
		return acc, nil
	case map[string]interface{}:
		acc := make(terms.Map, len(v))
		for k, e := range v {
			t, err := termFromJS(e)
			if err != nil {
				return nil, err
			}
			acc[k] = t
		}
		return acc, nil
	case nil:
		return nil, errors.New("can't make a term from null")
	default:
		return nil, fmt.Errorf("can't make a term from %#v (%T)", x, x)
	}
}
