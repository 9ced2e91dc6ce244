// Package rigorous provides machinery for executing transition
// systems defined by inference rules.
//
// The engine is in package 'rules', terms and pattern matching are in
// 'terms' and 'match', and some example semantics live under
// 'semantics'.  The command-line tool is cmd/rig.
//
// See https://github.com/rigorous-lang/rigorous/blob/master/README.md for more.
package rigorous
