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

package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/rigorous-lang/rigorous/rules"
	"github.com/rigorous-lang/rigorous/semantics/arith"
	"github.com/rigorous-lang/rigorous/semantics/ccs"
	"github.com/rigorous-lang/rigorous/semantics/pylite"
	"github.com/rigorous-lang/rigorous/terms"
)

// resolve maps a system argument to its rule system and its program
// reader.  A builtin name gets its own parser; anything else is a YAML
// rule-system file whose programs are configurations in the YAML term
// notation.
func resolve(name string) (*rules.System, func(string) (terms.Term, error), error) {
	switch name {
	case "arith":
		return arith.System(), arith.Parse, nil
	case "ccs":
		return ccs.System(), ccs.Parse, nil
	case "pylite":
		return pylite.System(), func(src string) (terms.Term, error) {
			stmt, err := pylite.Parse(src)
			if err != nil {
				return nil, err
			}
			return pylite.NewConf(stmt), nil
		}, nil
	default:
		src, err := os.ReadFile(name)
		if err != nil {
			return nil, nil, err
		}
		s, err := rules.Load(src)
		if err != nil {
			return nil, nil, fmt.Errorf("loading %s: %w", name, err)
		}
		return s, yamlConfig, nil
	}
}

func yamlConfig(src string) (terms.Term, error) {
	var x interface{}
	if err := yaml.Unmarshal([]byte(src), &x); err != nil {
		return nil, err
	}
	return rules.FromValue(x)
}

// program reads a program argument: either literal source or, with a
// leading '@', a filename.
func program(arg string) (string, error) {
	if !strings.HasPrefix(arg, "@") {
		return arg, nil
	}
	src, err := os.ReadFile(strings.TrimPrefix(arg, "@"))
	if err != nil {
		return "", err
	}
	return string(src), nil
}
