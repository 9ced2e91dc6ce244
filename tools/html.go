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
	"html"
	"io"
	"os"

	md "github.com/russross/blackfriday/v2"

	"github.com/rigorous-lang/rigorous/rules"
)

// RenderSystemHTML writes HTML documentation for the system's rules.
// Rule docs are Markdown.
func RenderSystemHTML(s *rules.System, out io.Writer) error {
	f := func(format string, args ...interface{}) {
		fmt.Fprintf(out, format+"\n", args...)
	}

	f(`<div class="systemDoc doc">%s</div>`, md.Run([]byte(s.Doc)))

	f(`<div class="rules"><table>`)
	for _, r := range s.Rules() {
		f(`<tr class="rule"><td><span id="%s" class="ruleName">%s</span></td><td>`, r.Name, r.Name)

		if r.Doc != "" {
			f(`<div class="ruleDoc doc">%s</div>`, md.Run([]byte(r.Doc)))
		}

		f(`<table>`)
		f(`<tr><td>when</td><td><code>%s</code></td></tr>`, html.EscapeString(r.When.String()))
		for _, p := range r.Premises {
			f(`<tr><td>%s</td><td><code>%s</code> &rArr; <code>%s</code></td></tr>`,
				p.Kind, html.EscapeString(p.Query.String()), html.EscapeString(p.Result.String()))
		}
		if r.ConditionSource != nil {
			f(`<tr><td>condition</td><td><div class="code"><pre>%s</pre></div></td></tr>`,
				html.EscapeString(r.ConditionSource.Source))
		} else if r.Condition != nil {
			f(`<tr><td>condition</td><td><em>(compiled)</em></td></tr>`)
		}
		f(`<tr><td>then</td><td><code>%s</code></td></tr>`, html.EscapeString(r.Then.String()))
		f(`</table>`)

		f(`</td></tr>`)
	}
	f(`</table></div>`)

	return nil
}

// RenderSystemPage wraps RenderSystemHTML in a standalone page.
func RenderSystemPage(s *rules.System, out io.Writer, cssFiles []string) error {
	if cssFiles == nil {
		cssFiles = []string{"/static/rules-html.css"}
	}

	fmt.Fprintf(out, `<!DOCTYPE html>
<meta charset="utf-8">
<html>
  <head>
  <title>%s</title>
`, html.EscapeString(s.Name))

	for _, cssFile := range cssFiles {
		fmt.Fprintf(out, "  <link href=\"%s\" rel=\"stylesheet\">\n", cssFile)
	}

	fmt.Fprintf(out, `
  </head>
  <body>
    <h1>%s</h1>
`, html.EscapeString(s.Name))

	if err := RenderSystemHTML(s, out); err != nil {
		return err
	}

	fmt.Fprintf(out, `
  </body>
</html>
`)

	return nil
}

// ReadAndRenderSystemPage loads a YAML rule system and renders its
// documentation page.
func ReadAndRenderSystemPage(filename string, cssFiles []string, out io.Writer) error {
	src, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	s, err := rules.Load(src)
	if err != nil {
		return err
	}
	return RenderSystemPage(s, out, cssFiles)
}
