package match

// Fuzz patterns and terms.  Match and then verify non-error results
// by re-instantiating the pattern with the resulting bindings.

import (
	"math/rand"
	"testing"

	"github.com/rigorous-lang/rigorous/terms"
)

// fuzz has parameters used to generate random patterns and terms.
type fuzz struct {
	seqWidth    int
	mapWidth    int
	appWidth    int
	alphabet    string
	varAlphabet string
	maxNumber   int

	vars float64
}

func newFuzz() *fuzz {
	return &fuzz{
		seqWidth:    4,
		mapWidth:    3,
		appWidth:    3,
		alphabet:    "abcde",
		varAlphabet: "XYZ",
		maxNumber:   10,
		vars:        0.2,
	}
}

// noVars makes the generated data variable-free (a concrete term).
func (f *fuzz) noVars() *fuzz {
	f.vars = 0
	return f
}

func (f *fuzz) gen(r *rand.Rand, d int) terms.Term {
	if r.Float64() < f.vars {
		return terms.Sym("?" + string(f.varAlphabet[r.Intn(len(f.varAlphabet))]))
	}
	max := 4
	if 0 < d {
		max = 7
	}
	switch r.Intn(max) {
	case 0:
		return terms.Num(float64(r.Intn(f.maxNumber)))
	case 1:
		return terms.Bool(r.Intn(2) == 0)
	case 2:
		return terms.String(f.genName(r))
	case 3:
		return terms.Sym(f.genName(r))
	case 4:
		acc := make(terms.Seq, r.Intn(f.seqWidth))
		for i := range acc {
			acc[i] = f.gen(r, d-1)
		}
		return acc
	case 5:
		n := r.Intn(f.mapWidth)
		acc := make(terms.Map, n)
		for i := 0; i < n; i++ {
			acc[f.genName(r)] = f.gen(r, d-1)
		}
		return acc
	default:
		args := make([]terms.Term, r.Intn(f.appWidth))
		for i := range args {
			args[i] = f.gen(r, d-1)
		}
		return terms.NewApp(f.genName(r), args...)
	}
}

func (f *fuzz) genName(r *rand.Rand) string {
	n := r.Intn(3) + 1
	s := make([]byte, n)
	for i := range s {
		s[i] = f.alphabet[r.Intn(len(f.alphabet))]
	}
	return string(s)
}

// TestMatchFuzz matches a bunch of patterns against a bunch of terms.
//
// For every successful match, instantiating the pattern with the
// resulting bindings must reproduce a term that matches the original
// with no new bindings.
func TestMatchFuzz(t *testing.T) {
	var (
		pats      = 500
		termsPer  = 500
		d         = 4
		r         = rand.New(rand.NewSource(42))
		p         = newFuzz()
		m         = newFuzz().noVars()
		matched   = 0
		attempted = 0
	)

	for i := 0; i < pats; i++ {
		pat := p.gen(r, d)
		for j := 0; j < termsPer; j++ {
			term := m.gen(r, d)
			bs, ok, err := Match(pat, term, nil)
			attempted++
			if err != nil {
				// Rest variables are never generated, so
				// a generated pattern is never malformed.
				t.Fatal(err)
			}
			if !ok {
				continue
			}
			matched++
			inst, err := Instantiate(pat, bs)
			if err != nil {
				t.Fatalf("pattern %s matched %s but won't instantiate: %v", pat, term, err)
			}
			again, ok, err := Match(pat, inst, bs)
			if err != nil || !ok {
				t.Fatalf("instantiated %s doesn't match its own pattern %s", inst, pat)
			}
			if len(again) != len(bs) {
				t.Fatalf("re-match of %s grew bindings: %v vs %v", pat, again, bs)
			}
		}
	}

	if matched == 0 {
		t.Fatal("fuzz never matched anything; generator is broken")
	}
	t.Logf("fuzzed %d, matched %d", attempted, matched)
}
