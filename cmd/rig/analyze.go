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

	"github.com/spf13/cobra"

	"github.com/rigorous-lang/rigorous/tools"
)

// analyzeCmd reports structural problems in a rule system.  Exit code
// 1 means the analysis found defects.
var analyzeCmd = &cobra.Command{
	Use:   "analyze system",
	Short: "Check a system's rules for structural problems.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		system, _, err := resolve(args[0])
		if err != nil {
			fail(err)
		}
		a, err := tools.Analyze(system)
		if err != nil {
			fail(err)
		}

		fmt.Printf("rules: %d\n", a.RuleCount)
		fmt.Printf("premises: %d\n", a.Premises)
		fmt.Printf("conditions: %d\n", a.Conditions)
		if 0 < len(a.Interpreters) {
			fmt.Printf("interpreters: %v\n", a.Interpreters)
		}
		if 0 < len(a.WildcardRules) {
			fmt.Printf("wildcard rules: %v\n", a.WildcardRules)
		}
		for _, e := range a.Errors {
			fmt.Printf("error: %s\n", e)
		}

		if 0 < len(a.Errors) {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
