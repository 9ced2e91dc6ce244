package match

import (
	"github.com/rigorous-lang/rigorous/terms"
)

// UnboundVariableError reports an attempt to instantiate a pattern
// containing a variable with no binding.  When the pattern is a
// rule's conclusion, this is a rule-set bug: the rule promised a
// next configuration it cannot produce.
type UnboundVariableError struct {
	Variable string
}

func (e *UnboundVariableError) Error() string {
	return "unbound pattern variable " + e.Variable
}

// Instantiate substitutes the Bindings into a pattern, producing a
// concrete Term.
//
// Every variable in the pattern must be bound; otherwise the result
// is an *UnboundVariableError.  A rest variable bound to a sequence
// splices its elements into the enclosing sequence.
func Instantiate(pattern terms.Term, bs Bindings) (terms.Term, error) {
	switch p := pattern.(type) {
	case terms.Symbol:
		if !IsVariable(p) {
			return p, nil
		}
		if IsAnonymousVariable(p) {
			return nil, &UnboundVariableError{"?"}
		}
		name := RestName(string(p))
		v, bound := bs[name]
		if !bound {
			return nil, &UnboundVariableError{name}
		}
		return v, nil

	case terms.Seq:
		acc := make(terms.Seq, 0, len(p))
		for _, e := range p {
			v, err := Instantiate(e, bs)
			if err != nil {
				return nil, err
			}
			if IsRestVariable(e) {
				spliced, is := v.(terms.Seq)
				if !is {
					return nil, &BadPatternError{p, "rest variable bound to a non-sequence"}
				}
				acc = append(acc, spliced...)
				continue
			}
			acc = append(acc, v)
		}
		return acc, nil

	case terms.Map:
		acc := make(terms.Map, len(p))
		for k, e := range p {
			v, err := Instantiate(e, bs)
			if err != nil {
				return nil, err
			}
			acc[k] = v
		}
		return acc, nil

	case *terms.App:
		args := make([]terms.Term, len(p.Args))
		for i, e := range p.Args {
			v, err := Instantiate(e, bs)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return terms.NewApp(p.Sort, args...), nil

	default:
		return pattern, nil
	}
}
