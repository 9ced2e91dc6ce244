package terms

import (
	"strconv"
)

// VariadicArity marks a sort that takes any number of arguments.
const VariadicArity = -1

// Signature declares constructor sorts and their arities.
//
// A Signature is built once when a semantics is defined and is
// read-only afterward.
type Signature map[string]int

// Declare adds a sort with the given arity.  Declaring a sort twice
// with different arities is a programming error and panics.
func (sig Signature) Declare(sort string, arity int) Signature {
	if prev, have := sig[sort]; have && prev != arity {
		panic("sort " + sort + " redeclared with different arity")
	}
	sig[sort] = arity
	return sig
}

// ShapeError reports a malformed Term: usually a constructor
// application whose argument count disagrees with its declared sort.
//
// A ShapeError is a bug in a rule set or a front-end, not a matching
// failure.  It is surfaced immediately and never retried.
type ShapeError struct {
	Sort string
	Want int
	Got  int
}

func (e *ShapeError) Error() string {
	return "constructor " + e.Sort + " wants " + strconv.Itoa(e.Want) +
		" args; got " + strconv.Itoa(e.Got)
}

// UnknownSortError reports an application of a sort the Signature
// doesn't declare.
type UnknownSortError struct {
	Sort string
}

func (e *UnknownSortError) Error() string {
	return "unknown sort " + e.Sort
}

// App makes a constructor application, checking the sort and arity
// against the Signature.
func (sig Signature) App(sort string, args ...Term) (*App, error) {
	arity, have := sig[sort]
	if !have {
		return nil, &UnknownSortError{sort}
	}
	if arity != VariadicArity && arity != len(args) {
		return nil, &ShapeError{Sort: sort, Want: arity, Got: len(args)}
	}
	return NewApp(sort, args...), nil
}

// MustApp is App that panics on error.  For building rule sets in Go,
// where a ShapeError is a compile-time-ish bug.
func (sig Signature) MustApp(sort string, args ...Term) *App {
	a, err := sig.App(sort, args...)
	if err != nil {
		panic(err)
	}
	return a
}

// Check walks a Term and verifies every App against the Signature.
// Sorts the Signature doesn't declare are ignored.
func (sig Signature) Check(t Term) error {
	switch v := t.(type) {
	case Seq:
		for _, e := range v {
			if err := sig.Check(e); err != nil {
				return err
			}
		}
	case Map:
		for _, e := range v {
			if err := sig.Check(e); err != nil {
				return err
			}
		}
	case *App:
		if arity, have := sig[v.Sort]; have {
			if arity != VariadicArity && arity != len(v.Args) {
				return &ShapeError{Sort: v.Sort, Want: arity, Got: len(v.Args)}
			}
		}
		for _, a := range v.Args {
			if err := sig.Check(a); err != nil {
				return err
			}
		}
	}
	return nil
}
