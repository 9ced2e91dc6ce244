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

package tools

// dot -Tpng g.dot > g.png

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/rigorous-lang/rigorous/rules"
)

// Dot makes a Graphviz dot file for the given run.  The main trace is
// a chain of configuration nodes with edges labeled by rule names.
// Premise derivations hang off their strides as dashed sub-chains.
func Dot(walked *rules.Walked, w io.WriteCloser) error {
	fmt.Fprintf(w, "digraph G {\n")
	fmt.Fprintf(w, `  graph [ordering=out,rankdir=TB,nodesep=0.3,ranksep=0.6]
  node [shape="box" style="rounded,filled" fillcolor="#99ddc8"]
  edge [fontsize="12"]
`)

	num := 0
	node := func(label string, style string) string {
		num++
		nid := fmt.Sprintf("n%d", num)
		fmt.Fprintf(w, "  %s [%slabel=\"%s\"]\n", nid, style, escape(label))
		return nid
	}

	var premises func(from string, ss []*rules.Stride)
	premises = func(from string, ss []*rules.Stride) {
		for _, p := range ss {
			a := node(p.From.String(), `fillcolor="#eeeeee", `)
			b := node(p.To.String(), `fillcolor="#eeeeee", `)
			fmt.Fprintf(w, "  %s -> %s [style=\"dashed\" label=\"%s\"]\n", a, b, escape(p.Rule))
			fmt.Fprintf(w, "  %s -> %s [style=\"dotted\" arrowhead=\"none\"]\n", from, a)
			premises(a, p.Premises)
		}
	}

	if 0 < len(walked.Trace) {
		prev := node(walked.Trace[0].String(), `style="rounded,filled,bold", `)
		for i, s := range walked.Strides {
			style := ""
			if i == len(walked.Strides)-1 && walked.StoppedBecause == rules.Done {
				style = `style="rounded,filled,dashed", `
			}
			next := node(walked.Trace[i+1].String(), style)
			fmt.Fprintf(w, "  %s -> %s [label=\"%s\"]\n", prev, next, escape(s.Rule))
			premises(prev, s.Premises)
			prev = next
		}
	}

	fmt.Fprintf(w, "}\n")
	return w.Close()
}

// PNG generates a PNG image based on output from Dot.
//
// This function will write two files: basename.dot and basename.png,
// where the basename is the given string.
func PNG(walked *rules.Walked, basename string) (string, error) {
	dotname := basename + ".dot"
	pngname := basename + ".png"

	dotfile, err := os.Create(dotname)
	if err != nil {
		return pngname, err
	}
	if err := Dot(walked, dotfile); err != nil {
		return pngname, err
	}
	cmd := "dot -Tpng " + dotname + " > " + pngname
	if err := exec.Command("bash", "-c", cmd).Run(); err != nil {
		return pngname, err
	}
	return pngname, nil
}

func escape(s string) string {
	return strings.Replace(s, `"`, `\"`, -1)
}
