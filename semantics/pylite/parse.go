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

package pylite

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/rigorous-lang/rigorous/terms"
)

// Parse reads a program:
//
//	x = 3;
//	while (0 < x) {
//	  print x;
//	  x = x - 1;
//	}
//
// Statements are assignment, if (e) {..} else {..}, while (e) {..},
// print e;, and pass;.  Expressions have numbers, true and false,
// variables, + - *, and the comparisons < and ==.
func Parse(src string) (terms.Term, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	t, err := p.stmts("")
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
		case c == '=' && i+1 < len(src) && src[i+1] == '=':
			toks = append(toks, "==")
			i += 2
		case strings.ContainsRune("=;(){}+-*<", c):
			toks = append(toks, string(c))
			i++
		case unicode.IsDigit(c):
			j := i
			for j < len(src) && (unicode.IsDigit(rune(src[j])) || src[j] == '.') {
				j++
			}
			toks = append(toks, src[i:j])
			i = j
		case unicode.IsLetter(c) || c == '_':
			j := i
			for j < len(src) && (unicode.IsLetter(rune(src[j])) || unicode.IsDigit(rune(src[j])) || src[j] == '_') {
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

// stmts parses statements up to the given closing token (or the end of
// input), folding them into right-nested seqs.  No statements at all
// is just pass.
func (p *parser) stmts(until string) (terms.Term, error) {
	var acc []terms.Term
	for p.peek() != until {
		s, err := p.stmt()
		if err != nil {
			return nil, err
		}
		acc = append(acc, s)
	}
	if len(acc) == 0 {
		return Pass, nil
	}
	t := acc[len(acc)-1]
	for i := len(acc) - 2; 0 <= i; i-- {
		t = terms.NewApp("seq", acc[i], t)
	}
	return t, nil
}

func (p *parser) stmt() (terms.Term, error) {
	switch tok := p.peek(); tok {
	case "pass":
		p.pos++
		if err := p.expect(";"); err != nil {
			return nil, err
		}
		return Pass, nil
	case "print":
		p.pos++
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(";"); err != nil {
			return nil, err
		}
		return terms.NewApp("print", e), nil
	case "if":
		p.pos++
		e, err := p.condition()
		if err != nil {
			return nil, err
		}
		s1, err := p.block()
		if err != nil {
			return nil, err
		}
		if err := p.expect("else"); err != nil {
			return nil, err
		}
		s2, err := p.block()
		if err != nil {
			return nil, err
		}
		return terms.NewApp("if", e, s1, s2), nil
	case "while":
		p.pos++
		e, err := p.condition()
		if err != nil {
			return nil, err
		}
		s, err := p.block()
		if err != nil {
			return nil, err
		}
		return terms.NewApp("while", e, s), nil
	default:
		if !identifier(tok) {
			return nil, fmt.Errorf("unexpected '%s'", tok)
		}
		p.pos++
		if err := p.expect("="); err != nil {
			return nil, err
		}
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(";"); err != nil {
			return nil, err
		}
		return terms.NewApp("assign", terms.Sym(tok), e), nil
	}
}

func (p *parser) condition() (terms.Term, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	return e, nil
}

func (p *parser) block() (terms.Term, error) {
	if err := p.expect("{"); err != nil {
		return nil, err
	}
	s, err := p.stmts("}")
	if err != nil {
		return nil, err
	}
	if err := p.expect("}"); err != nil {
		return nil, err
	}
	return s, nil
}

var keywords = map[string]bool{
	"if": true, "else": true, "while": true,
	"print": true, "pass": true, "true": true, "false": true,
}

func identifier(tok string) bool {
	if tok == "" || keywords[tok] {
		return false
	}
	c := rune(tok[0])
	return unicode.IsLetter(c) || c == '_'
}

func (p *parser) expr() (terms.Term, error) {
	left, err := p.sum()
	if err != nil {
		return nil, err
	}
	switch op := p.peek(); op {
	case "<", "==":
		p.pos++
		right, err := p.sum()
		if err != nil {
			return nil, err
		}
		sort := "lt"
		if op == "==" {
			sort = "eq"
		}
		return terms.NewApp(sort, left, right), nil
	}
	return left, nil
}

func (p *parser) sum() (terms.Term, error) {
	left, err := p.product()
	if err != nil {
		return nil, err
	}
	for {
		switch op := p.peek(); op {
		case "+", "-":
			p.pos++
			right, err := p.product()
			if err != nil {
				return nil, err
			}
			sort := "add"
			if op == "-" {
				sort = "sub"
			}
			left = terms.NewApp(sort, left, right)
		default:
			return left, nil
		}
	}
}

func (p *parser) product() (terms.Term, error) {
	left, err := p.atom()
	if err != nil {
		return nil, err
	}
	for p.peek() == "*" {
		p.pos++
		right, err := p.atom()
		if err != nil {
			return nil, err
		}
		left = terms.NewApp("mul", left, right)
	}
	return left, nil
}

func (p *parser) atom() (terms.Term, error) {
	tok := p.peek()
	switch {
	case tok == "(":
		p.pos++
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return e, nil
	case tok == "true":
		p.pos++
		return terms.Bool(true), nil
	case tok == "false":
		p.pos++
		return terms.Bool(false), nil
	case identifier(tok):
		p.pos++
		return terms.NewApp("var", terms.Sym(tok)), nil
	default:
		n, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("unexpected '%s'", tok)
		}
		p.pos++
		return terms.Number(n), nil
	}
}
