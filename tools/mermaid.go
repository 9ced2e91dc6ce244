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

import (
	"fmt"
	"io"
	"strings"

	"github.com/rigorous-lang/rigorous/rules"
)

type MermaidOpts struct {
	// ShowPremises includes premise derivations as dashed
	// sub-chains.
	ShowPremises bool `json:"showPremises"`

	// FinalFill is the fill color for the final configuration of a
	// finished run.
	FinalFill string `json:"finalFill,omitempty"`
}

// Mermaid makes a Mermaid (https://mermaidjs.github.io/) input file
// for the given run.
func Mermaid(walked *rules.Walked, w io.WriteCloser, opts *MermaidOpts) error {
	if opts == nil {
		opts = &MermaidOpts{
			ShowPremises: true,
			FinalFill:    "#bcf2db",
		}
	}

	fmt.Fprintf(w, "graph TB\n")

	num := 0
	node := func(label string) string {
		num++
		nid := fmt.Sprintf("n%d", num)
		fmt.Fprintf(w, "  %s[\"%s\"]\n", nid, strings.Replace(label, `"`, `'`, -1))
		return nid
	}

	var premises func(from string, ss []*rules.Stride)
	premises = func(from string, ss []*rules.Stride) {
		for _, p := range ss {
			a := node(p.From.String())
			b := node(p.To.String())
			fmt.Fprintf(w, "  %s -. \"%s\" .-> %s\n", a, strings.Replace(p.Rule, `"`, `'`, -1), b)
			fmt.Fprintf(w, "  %s --- %s\n", from, a)
			premises(a, p.Premises)
		}
	}

	if 0 < len(walked.Trace) {
		prev := node(walked.Trace[0].String())
		for i, s := range walked.Strides {
			next := node(walked.Trace[i+1].String())
			fmt.Fprintf(w, "  %s -- \"%s\" --> %s\n", prev, strings.Replace(s.Rule, `"`, `'`, -1), next)
			if opts.ShowPremises {
				premises(prev, s.Premises)
			}
			if i == len(walked.Strides)-1 && walked.StoppedBecause == rules.Done && opts.FinalFill != "" {
				fmt.Fprintf(w, "  style %s fill:%s\n", next, opts.FinalFill)
			}
			prev = next
		}
	}

	fmt.Fprintf(w, "\n")
	return w.Close()
}
