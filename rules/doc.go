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

// Package rules is the rule-matching evaluation engine.
//
// A System holds an ordered set of inference rules.  Each Rule has a
// conclusion, which is a pair of patterns: a configuration-shape
// pattern (When) and a next-configuration pattern (Then); an ordered
// list of Premises, each itself a query that must be satisfied before
// the conclusion applies; and an optional side Condition over the
// variables bound so far.
//
// An Engine takes a configuration Term and computes the next
// configuration: it tries each candidate rule in registration order,
// matches the rule's shape pattern against the configuration,
// satisfies the premises in declared order (a "step" premise
// recursively invokes the engine on a sub-configuration), checks the
// side condition, and instantiates the conclusion.  The first rule
// whose whole chain succeeds wins; there is no further search.  When
// no rule applies, the configuration is stuck, which for a well-formed
// semantics is ordinary termination.
//
// This discipline is exactly Plotkin-style structural operational
// semantics: rules are data, evaluation is deterministic, and the
// only backtracking is "try the next rule".
//
// To use this package, build a System (in Go, or from YAML via Load),
// Compile() it if any rule's condition is source code, then make an
// Engine and Run() an initial configuration.
package rules
