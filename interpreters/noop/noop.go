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

// Package noop provides an interpreter whose conditions always hold.
// Useful for testing rule sets without their side-conditions.
package noop

import (
	"context"

	"github.com/rigorous-lang/rigorous/match"
)

type Interpreter struct {
}

func NewInterpreter() *Interpreter {
	return &Interpreter{}
}

func (i *Interpreter) Compile(ctx context.Context, src string) (interface{}, error) {
	return nil, nil
}

func (i *Interpreter) Exec(ctx context.Context, bs match.Bindings, src string, compiled interface{}) (match.Bindings, error) {
	return bs.Copy(), nil
}
