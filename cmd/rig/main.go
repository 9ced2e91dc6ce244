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

// rig runs, inspects, and stores transition-system executions.
//
//	rig run arith '1 + 2 * 3'
//	rig run pylite @program.py --limit 1000 --save demo
//	rig run path/to/system.yaml '{sort: count, args: [3]}'
//	rig analyze path/to/system.yaml
//	rig rules arith > arith.html
//	rig trace list
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rig",
	Short: "A workbench for transition systems.",
	Long: `A workbench for transition systems defined by inference rules.

The builtin systems are arith, ccs, and pylite.  Anything else names a
YAML rule-system file.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().String("db", "rig.db", "trace database filename")
}
