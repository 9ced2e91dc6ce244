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
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rigorous-lang/rigorous/tools"
)

var rulesCmd = &cobra.Command{
	Use:   "rules [flags] system",
	Short: "Render a system's rules as an HTML page.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		system, _, err := resolve(args[0])
		if err != nil {
			fail(err)
		}

		var out io.Writer = os.Stdout
		if filename, _ := cmd.Flags().GetString("out"); filename != "" {
			f, err := os.Create(filename)
			if err != nil {
				fail(err)
			}
			defer f.Close()
			out = f
		}

		css, _ := cmd.Flags().GetStringSlice("css")
		if err := tools.RenderSystemPage(system, out, css); err != nil {
			fail(err)
		}
	},
}

func init() {
	rulesCmd.Flags().String("out", "", "write to this file instead of stdout")
	rulesCmd.Flags().StringSlice("css", nil, "CSS files to link")
	rootCmd.AddCommand(rulesCmd)
}
