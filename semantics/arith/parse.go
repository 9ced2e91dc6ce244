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

package arith

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/rigorous-lang/rigorous/terms"
)

// Parse turns infix source like "1 + 2 * (3 - 4)" into an expression
// term.  The usual precedence applies: mul and div bind tighter than
// add and sub, and operators of equal precedence associate to the
// left.
func Parse(src string) (terms.Term, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	t, err := p.expr(0)
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
		case strings.ContainsRune("+-*/()", c):
			toks = append(toks, string(c))
			i++
		case unicode.IsDigit(c) || c == '.':
			j := i
			for j < len(src) && (unicode.IsDigit(rune(src[j])) || src[j] == '.') {
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

var binding = map[string]struct {
	sort  string
	level int
}{
	"+": {"add", 1},
	"-": {"sub", 1},
	"*": {"mul", 2},
	"/": {"div", 2},
}

type parser struct {
	toks []string
	pos  int
}

func (p *parser) expr(level int) (terms.Term, error) {
	left, err := p.atom()
	if err != nil {
		return nil, err
	}
	for p.pos < len(p.toks) {
		b, is := binding[p.toks[p.pos]]
		if !is || b.level < level {
			break
		}
		p.pos++
		right, err := p.expr(b.level + 1)
		if err != nil {
			return nil, err
		}
		left = terms.NewApp(b.sort, left, right)
	}
	return left, nil
}

func (p *parser) atom() (terms.Term, error) {
	if p.pos == len(p.toks) {
		return nil, fmt.Errorf("expression ended too soon")
	}
	tok := p.toks[p.pos]
	p.pos++
	switch tok {
	case "(":
		t, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		if p.pos == len(p.toks) || p.toks[p.pos] != ")" {
			return nil, fmt.Errorf("unbalanced parentheses")
		}
		p.pos++
		return t, nil
	case ")", "+", "*", "/":
		return nil, fmt.Errorf("unexpected '%s'", tok)
	case "-":
		// Unary minus.
		t, err := p.atom()
		if err != nil {
			return nil, err
		}
		n, is := t.(terms.Number)
		if !is {
			return nil, fmt.Errorf("'-' wants a number")
		}
		return terms.Number(-n), nil
	default:
		n, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number '%s'", tok)
		}
		return terms.Number(n), nil
	}
}
