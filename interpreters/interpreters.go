// Package interpreters gathers the side-condition interpreters that
// ship with this repo.
package interpreters

import (
	"github.com/rigorous-lang/rigorous/interpreters/goja"
	"github.com/rigorous-lang/rigorous/interpreters/noop"
	"github.com/rigorous-lang/rigorous/rules"
)

func Standard() map[string]rules.Interpreter {
	is := make(map[string]rules.Interpreter)

	is["goja"] = goja.NewInterpreter()
	is["ecmascript"] = is["goja"]

	is["noop"] = noop.NewInterpreter()

	return is
}
