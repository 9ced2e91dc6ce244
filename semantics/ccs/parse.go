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
	"fmt"
	"strings"
	"unicode"

	"github.com/rigorous-lang/rigorous/terms"
)

// Parse reads textbook CCS notation:
//
//	0                the inert process
//	a.P              action prefix
//	'a.P             complementary action prefix
//	tau.P            internal action prefix
//	P + Q            choice
//	P | Q            parallel composition
//	P \ a            restriction of the name a
//	fix X. P         recursion, with X as the process variable
//
// Prefix binds tightest, then restriction, then |, then +.  A bare
// identifier is a process variable.
func Parse(src string) (terms.Term, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	t, err := p.sum()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, fmt.Errorf("unexpected '%s' at token %d", p.toks[p.pos], p.pos)
	}
	return t, nil
}

func tokenize(src string) ([]string, error) {
	var toks []string
	i := 0
	for i < len(src) {
		c := rune(src[i])
		switch {
		case unicode.IsSpace(c):
			i++
		case strings.ContainsRune(".+|\\'()0", c):
			toks = append(toks, string(c))
			i++
		case unicode.IsLetter(c):
			j := i
			for j < len(src) && (unicode.IsLetter(rune(src[j])) || unicode.IsDigit(rune(src[j]))) {
				j++
			}
			toks = append(toks, src[i:j])
			i = j
		default:
			return nil, fmt.Errorf("unexpected character %q at offset %d", c, i)
		}
	}
	return toks, nil
}

type parser struct {
	toks []string
	pos  int
}

func (p *parser) peek() string {
	if p.pos == len(p.toks) {
		return ""
	}
	return p.toks[p.pos]
}

func (p *parser) expect(tok string) error {
	if p.peek() != tok {
		return fmt.Errorf("expected '%s'; got '%s'", tok, p.peek())
	}
	p.pos++
	return nil
}

func ident(tok string) bool {
	if tok == "" || tok == "fix" || tok == "tau" {
		return false
	}
	return unicode.IsLetter(rune(tok[0]))
}

func (p *parser) sum() (terms.Term, error) {
	left, err := p.par()
	if err != nil {
		return nil, err
	}
	for p.peek() == "+" {
		p.pos++
		right, err := p.par()
		if err != nil {
			return nil, err
		}
		left = terms.NewApp("sum", left, right)
	}
	return left, nil
}

func (p *parser) par() (terms.Term, error) {
	left, err := p.restricted()
	if err != nil {
		return nil, err
	}
	for p.peek() == "|" {
		p.pos++
		right, err := p.restricted()
		if err != nil {
			return nil, err
		}
		left = terms.NewApp("par", left, right)
	}
	return left, nil
}

func (p *parser) restricted() (terms.Term, error) {
	t, err := p.prefixed()
	if err != nil {
		return nil, err
	}
	for p.peek() == "\\" {
		p.pos++
		name := p.peek()
		if !ident(name) {
			return nil, fmt.Errorf("'\\' wants a name; got '%s'", name)
		}
		p.pos++
		t = terms.NewApp("restrict", t, terms.Sym(name))
	}
	return t, nil
}

func (p *parser) prefixed() (terms.Term, error) {
	switch tok := p.peek(); {
	case tok == "tau":
		p.pos++
		if err := p.expect("."); err != nil {
			return nil, err
		}
		rest, err := p.prefixed()
		if err != nil {
			return nil, err
		}
		return terms.NewApp("prefix", Tau, rest), nil
	case tok == "'":
		p.pos++
		name := p.peek()
		if !ident(name) {
			return nil, fmt.Errorf("''' wants a name; got '%s'", name)
		}
		p.pos++
		if err := p.expect("."); err != nil {
			return nil, err
		}
		rest, err := p.prefixed()
		if err != nil {
			return nil, err
		}
		return terms.NewApp("prefix", Co(terms.Sym(name)), rest), nil
	case ident(tok) && p.pos+1 < len(p.toks) && p.toks[p.pos+1] == ".":
		p.pos += 2
		rest, err := p.prefixed()
		if err != nil {
			return nil, err
		}
		return terms.NewApp("prefix", terms.Sym(tok), rest), nil
	default:
		return p.atom()
	}
}

func (p *parser) atom() (terms.Term, error) {
	switch tok := p.peek(); {
	case tok == "0":
		p.pos++
		return Stop, nil
	case tok == "(":
		p.pos++
		t, err := p.sum()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return t, nil
	case tok == "fix":
		p.pos++
		name := p.peek()
		if !ident(name) {
			return nil, fmt.Errorf("fix wants a process variable; got '%s'", name)
		}
		p.pos++
		if err := p.expect("."); err != nil {
			return nil, err
		}
		body, err := p.sum()
		if err != nil {
			return nil, err
		}
		return terms.NewApp("fix", terms.Sym(name), body), nil
	case ident(tok):
		p.pos++
		return terms.Sym(tok), nil
	default:
		return nil, fmt.Errorf("unexpected '%s'", tok)
	}
}
