package rules

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v2"

	"github.com/rigorous-lang/rigorous/terms"
)

// This file loads rule systems from YAML documents.
//
// Term notation in YAML:
//
//   42, true        literals
//   foo             a Symbol ("?x" is a pattern variable)
//   {str: hello}    a String literal
//   [a, b, c]       a Seq
//   {sort: add, args: ["?l", "?r"]}
//                   a constructor application
//   {map: {k: v}}   a Map term
//
// A rule looks like:
//
//   - name: add-eval
//     when: {sort: add, args: ["?l", "?r"]}
//     premises:
//       - step: "?l"
//         result: "?v"
//     condition:
//       interpreter: goja
//       source: typeof l === 'number'
//     binds: [sum]
//     then: "?sum"

type yamlPremise struct {
	Step   interface{} `yaml:"step"`
	Bind   interface{} `yaml:"bind"`
	Result interface{} `yaml:"result"`
}

type yamlRule struct {
	Name      string           `yaml:"name"`
	Doc       string           `yaml:"doc"`
	When      interface{}      `yaml:"when"`
	Then      interface{}      `yaml:"then"`
	Premises  []yamlPremise    `yaml:"premises"`
	Condition *ConditionSource `yaml:"condition"`
	Binds     []string         `yaml:"binds"`
}

type yamlSystem struct {
	Name  string     `yaml:"name"`
	Doc   string     `yaml:"doc"`
	Rules []yamlRule `yaml:"rules"`
}

// Load reads a rule system from YAML.  Conditions are not compiled;
// call System.Compile afterward if any rule carries condition source.
func Load(data []byte) (*System, error) {
	var doc yamlSystem
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	sys := NewSystem(doc.Name)
	sys.Doc = doc.Doc

	for _, yr := range doc.Rules {
		r, err := yr.rule()
		if err != nil {
			return nil, err
		}
		if err := sys.Register(r); err != nil {
			return nil, err
		}
	}

	return sys, nil
}

func (yr yamlRule) rule() (*Rule, error) {
	when, err := FromValue(yr.When)
	if err != nil {
		return nil, &BadRuleError{Rule: yr.Name, Err: err}
	}
	then, err := FromValue(yr.Then)
	if err != nil {
		return nil, &BadRuleError{Rule: yr.Name, Err: err}
	}

	r := &Rule{
		Name:            yr.Name,
		Doc:             yr.Doc,
		When:            when,
		Then:            then,
		ConditionSource: yr.Condition,
		Binds:           yr.Binds,
	}

	for i, yp := range yr.Premises {
		p, err := yp.premise()
		if err != nil {
			return nil, &BadRuleError{Rule: yr.Name, Err: fmt.Errorf("premise %d: %w", i, err)}
		}
		r.Premises = append(r.Premises, p)
	}

	return r, nil
}

func (yp yamlPremise) premise() (*Premise, error) {
	if yp.Result == nil {
		return nil, errors.New("premise has no result pattern")
	}
	result, err := FromValue(yp.Result)
	if err != nil {
		return nil, err
	}

	switch {
	case yp.Step != nil && yp.Bind != nil:
		return nil, errors.New("premise has both step and bind queries")
	case yp.Step != nil:
		query, err := FromValue(yp.Step)
		if err != nil {
			return nil, err
		}
		return Step(query, result), nil
	case yp.Bind != nil:
		query, err := FromValue(yp.Bind)
		if err != nil {
			return nil, err
		}
		return Bind(query, result), nil
	default:
		return nil, errors.New("premise has neither step nor bind query")
	}
}

// FromValue converts a YAML- or JSON-decoded value into a Term using
// the notation described above.
func FromValue(x interface{}) (terms.Term, error) {
	switch v := x.(type) {
	case nil:
		return nil, errors.New("no term")
	case bool:
		return terms.Bool(v), nil
	case int:
		return terms.Num(float64(v)), nil
	case int64:
		return terms.Num(float64(v)), nil
	case float64:
		return terms.Num(v), nil
	case string:
		return terms.Sym(v), nil
	case []interface{}:
		acc := make(terms.Seq, len(v))
		for i, e := range v {
			t, err := FromValue(e)
			if err != nil {
				return nil, err
			}
			acc[i] = t
		}
		return acc, nil
	case map[interface{}]interface{}:
		return fromMapValue(stringKeys(v))
	case map[string]interface{}:
		return fromMapValue(v)
	default:
		return nil, fmt.Errorf("can't make a term from %T", x)
	}
}

func stringKeys(m map[interface{}]interface{}) map[string]interface{} {
	acc := make(map[string]interface{}, len(m))
	for k, v := range m {
		acc[fmt.Sprintf("%v", k)] = v
	}
	return acc
}

func fromMapValue(m map[string]interface{}) (terms.Term, error) {
	if s, have := m["str"]; have && len(m) == 1 {
		str, is := s.(string)
		if !is {
			return nil, fmt.Errorf("str wants a string, not %T", s)
		}
		return terms.String(str), nil
	}

	if s, have := m["sort"]; have {
		sort, is := s.(string)
		if !is {
			return nil, fmt.Errorf("sort wants a string, not %T", s)
		}
		var args []terms.Term
		if raw, have := m["args"]; have {
			list, is := raw.([]interface{})
			if !is {
				return nil, fmt.Errorf("args wants a list, not %T", raw)
			}
			for _, e := range list {
				t, err := FromValue(e)
				if err != nil {
					return nil, err
				}
				args = append(args, t)
			}
		}
		return terms.NewApp(sort, args...), nil
	}

	if raw, have := m["map"]; have && len(m) == 1 {
		inner, is := raw.(map[interface{}]interface{})
		if !is {
			return nil, fmt.Errorf("map wants a mapping, not %T", raw)
		}
		acc := make(terms.Map, len(inner))
		for k, e := range stringKeys(inner) {
			t, err := FromValue(e)
			if err != nil {
				return nil, err
			}
			acc[k] = t
		}
		return acc, nil
	}

	return nil, fmt.Errorf("mapping term needs a sort:, str:, or map: key (got %v)", m)
}
