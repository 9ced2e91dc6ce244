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

// Package match implements the core pattern matcher.
//
// A pattern is just a Term that may contain variables: Symbols
// starting with '?'.  Matching a pattern against a concrete Term
// either extends a set of Bindings or fails.  Failure is an ordinary
// result, not an error; the evaluation engine fails candidates all
// day long.
package match

import (
	"strings"

	"github.com/rigorous-lang/rigorous/terms"
)

// Bindings is a map from variables (Symbols starting with a '?') to
// their values.
type Bindings map[string]terms.Term

func NewBindings() Bindings {
	return make(Bindings, 8)
}

// Extend adds the binding; modifies and returns the Bindings.
//
// The Bindings are modified.
func (bs Bindings) Extend(p string, v terms.Term) Bindings {
	bs[p] = v
	return bs
}

// Remove removes the given keys.
//
// The Bindings are modified.
func (bs Bindings) Remove(ps ...string) Bindings {
	for _, p := range ps {
		delete(bs, p)
	}
	return bs
}

// Copy makes a shallow copy of the Bindings.
//
// Shallow is fine: Terms are immutable.
func (bs Bindings) Copy() Bindings {
	acc := make(Bindings, len(bs))
	for k, v := range bs {
		acc[k] = v
	}
	return acc
}

// IsVariable reports if the Term is a pattern variable.
//
// All pattern variables are Symbols starting with a '?'.
func IsVariable(t terms.Term) bool {
	s, is := t.(terms.Symbol)
	return is && strings.HasPrefix(string(s), "?")
}

// IsAnonymousVariable detects the wildcard variable '?'.  A binding
// for an anonymous variable shouldn't ever make it into Bindings.
func IsAnonymousVariable(t terms.Term) bool {
	s, is := t.(terms.Symbol)
	return is && string(s) == "?"
}

// IsRestVariable detects a rest-binding variable: a variable with a
// '...' suffix, as in '?xs...'.  A rest variable may appear only as
// the final element of a sequence pattern, where it captures the
// remaining suffix of the sequence being matched.
func IsRestVariable(t terms.Term) bool {
	s, is := t.(terms.Symbol)
	return is && strings.HasPrefix(string(s), "?") && strings.HasSuffix(string(s), "...")
}

// RestName gives the Bindings key for a rest variable: '?xs...'
// binds under '?xs'.
func RestName(s string) string {
	return strings.TrimSuffix(s, "...")
}

// VarName strips the '?' prefix from a variable (or Bindings key).
func VarName(s string) string {
	return strings.TrimPrefix(s, "?")
}

// BadPatternError reports a structurally malformed pattern, such as a
// rest variable that isn't the last element of its sequence.  This is
// a bug in a rule set, not a matching failure.
type BadPatternError struct {
	Pattern terms.Term
	Problem string
}

func (e *BadPatternError) Error() string {
	return "bad pattern " + e.Pattern.String() + ": " + e.Problem
}

// Match attempts to match the pattern against the term, extending the
// given Bindings.
//
// The given Bindings are not modified.  The boolean result reports
// whether the match succeeded; when it did, the returned Bindings are
// a copy of the input extended with any new bindings.  Matching is a
// pure function of (pattern, term, bindings): repeated calls give the
// same answer.
//
// A variable that is already bound matches only a Term structurally
// equal to its binding, which is what makes non-linear patterns like
// (?x ?x) work.  Sequence elements are matched left to right, so
// later elements see bindings made by earlier ones.
func Match(pattern, term terms.Term, bs Bindings) (Bindings, bool, error) {
	if bs == nil {
		bs = NewBindings()
	}
	return match(pattern, term, bs.Copy())
}

// match is Match without the defensive copy; it may modify bs.
func match(pattern, term terms.Term, bs Bindings) (Bindings, bool, error) {
	switch p := pattern.(type) {
	case nil:
		return bs, term == nil, nil

	case terms.Number, terms.String, terms.Bool:
		return bs, terms.Equal(pattern, term), nil

	case terms.Symbol:
		if !IsVariable(p) {
			return bs, terms.Equal(pattern, term), nil
		}
		if IsAnonymousVariable(p) {
			return bs, true, nil
		}
		if IsRestVariable(p) {
			return nil, false, &BadPatternError{pattern, "rest variable outside sequence tail"}
		}
		if prior, bound := bs[string(p)]; bound {
			// Consistent rebinding for non-linear patterns.
			return bs, terms.Equal(prior, term), nil
		}
		return bs.Extend(string(p), term), true, nil

	case terms.Seq:
		t, is := term.(terms.Seq)
		if !is {
			return bs, false, nil
		}
		return matchSeq(p, t, bs)

	case terms.Map:
		t, is := term.(terms.Map)
		if !is {
			return bs, false, nil
		}
		// Every pattern key must be present and match.  Extra
		// keys in the term are fine.
		for k, pv := range p {
			tv, have := t[k]
			if !have {
				return bs, false, nil
			}
			var (
				ok  bool
				err error
			)
			if bs, ok, err = match(pv, tv, bs); err != nil || !ok {
				return bs, false, err
			}
		}
		return bs, true, nil

	case *terms.App:
		t, is := term.(*terms.App)
		if !is || p.Sort != t.Sort {
			return bs, false, nil
		}
		return matchSeq(terms.Seq(p.Args), terms.Seq(t.Args), bs)

	default:
		return nil, false, &BadPatternError{pattern, "unknown pattern type"}
	}
}

func matchSeq(pat, t terms.Seq, bs Bindings) (Bindings, bool, error) {
	for i, pe := range pat {
		if IsRestVariable(pe) {
			if i != len(pat)-1 {
				return nil, false, &BadPatternError{pat, "rest variable not last in sequence"}
			}
			rest := make(terms.Seq, len(t)-i)
			copy(rest, t[i:])
			return match(terms.Symbol(RestName(string(pe.(terms.Symbol)))), rest, bs)
		}
		if len(t) <= i {
			return bs, false, nil
		}
		var (
			ok  bool
			err error
		)
		if bs, ok, err = match(pe, t[i], bs); err != nil || !ok {
			return bs, false, err
		}
	}
	return bs, len(pat) == len(t), nil
}

// Variables collects the names of the variables occurring in a
// pattern, in no particular order.  Rest variables report under their
// binding name (without the '...').
func Variables(pattern terms.Term) map[string]bool {
	acc := make(map[string]bool)
	collectVariables(pattern, acc)
	return acc
}

func collectVariables(pattern terms.Term, acc map[string]bool) {
	switch p := pattern.(type) {
	case terms.Symbol:
		if IsVariable(p) && !IsAnonymousVariable(p) {
			acc[RestName(string(p))] = true
		}
	case terms.Seq:
		for _, e := range p {
			collectVariables(e, acc)
		}
	case terms.Map:
		for _, e := range p {
			collectVariables(e, acc)
		}
	case *terms.App:
		for _, e := range p.Args {
			collectVariables(e, acc)
		}
	}
}
