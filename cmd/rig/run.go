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
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rigorous-lang/rigorous/interpreters"
	"github.com/rigorous-lang/rigorous/rules"
	"github.com/rigorous-lang/rigorous/semantics/ccs"
	"github.com/rigorous-lang/rigorous/store"
	"github.com/rigorous-lang/rigorous/tools"
)

// runCmd executes a program under a system.  Exit code 0 means the
// run finished (got stuck), 2 means it was cut off by the step limit
// or the timeout, and 1 is an error in the system or the program.
var runCmd = &cobra.Command{
	Use:   "run [flags] system program",
	Short: "Run a program under a transition system.",
	Long: `Run a program under a transition system and print its trace.

The system is a builtin name (arith, ccs, pylite) or a YAML rule-system
file.  The program is source text, or @filename to read a file.  For a
YAML system the program is a configuration in the YAML term notation.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}

		src, err := program(args[1])
		if err != nil {
			fail(err)
		}

		limit, _ := cmd.Flags().GetInt("limit")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		if args[0] == "ccs" {
			runCCS(src, limit, timeout)
			return
		}

		system, parse, err := resolve(args[0])
		if err != nil {
			fail(err)
		}
		config, err := parse(src)
		if err != nil {
			fail(err)
		}

		if err := system.Compile(context.Background(), interpreters.Standard(), false); err != nil {
			fail(err)
		}

		eng := &rules.Engine{System: system}
		ctl := &rules.Control{Limit: limit, Timeout: timeout}
		log.Debugf("running %s from %s", system.Name, config)
		w, err := eng.Run(context.Background(), config, ctl)
		if err != nil {
			fail(err)
		}

		for i, c := range w.Trace {
			if i == 0 {
				fmt.Printf("   %s\n", c)
			} else {
				fmt.Printf("=> %s  [%s]\n", c, w.Strides[i-1].Rule)
			}
		}
		fmt.Printf("stopped: %s after %d steps\n", w.StoppedBecause, len(w.Strides))

		if name, _ := cmd.Flags().GetString("save"); name != "" {
			saveTrace(cmd, name, system.Name, w)
		}
		if filename, _ := cmd.Flags().GetString("dot"); filename != "" {
			f, err := os.Create(filename)
			if err != nil {
				fail(err)
			}
			if err := tools.Dot(w, f); err != nil {
				fail(err)
			}
		}
		if filename, _ := cmd.Flags().GetString("mermaid"); filename != "" {
			f, err := os.Create(filename)
			if err != nil {
				fail(err)
			}
			if err := tools.Mermaid(w, f, nil); err != nil {
				fail(err)
			}
		}

		if w.StoppedBecause != rules.Done {
			os.Exit(2)
		}
	},
}

// runCCS drives a CCS process, printing the action of each transition.
// The engine's step results carry action tags, so the generic trace
// loop doesn't apply.
func runCCS(src string, limit int, timeout time.Duration) {
	p, err := ccs.Parse(src)
	if err != nil {
		fail(err)
	}

	ctx := context.Background()
	if 0 < timeout {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	fmt.Printf("   %s\n", p)
	ts, err := ccs.Run(ctx, p, limit)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			fmt.Printf("stopped after %d transitions: %s\n", len(ts), err)
			os.Exit(2)
		}
		fail(err)
	}
	for _, tr := range ts {
		fmt.Printf("-%s-> %s\n", tr.Action, tr.Process)
	}
	fmt.Printf("stopped after %d transitions\n", len(ts))

	if len(ts) == limit {
		os.Exit(2)
	}
}

func saveTrace(cmd *cobra.Command, name, system string, w *rules.Walked) {
	filename, _ := cmd.Flags().GetString("db")
	s, err := store.NewStore(filename)
	if err != nil {
		fail(err)
	}
	if err := s.Open(); err != nil {
		fail(err)
	}
	defer s.Close()
	if err := s.Save(store.Record(name, system, w)); err != nil {
		fail(err)
	}
	log.Debugf("saved trace %s to %s", name, filename)
}

func fail(err error) {
	log.Error(err)
	os.Exit(1)
}

func init() {
	runCmd.Flags().Int("limit", 100, "maximum number of steps")
	runCmd.Flags().Duration("timeout", 0, "wall-clock bound for the run")
	runCmd.Flags().String("save", "", "save the trace under this name")
	runCmd.Flags().String("dot", "", "write a Graphviz rendering to this file")
	runCmd.Flags().String("mermaid", "", "write a Mermaid rendering to this file")
	rootCmd.AddCommand(runCmd)
}
