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

	"github.com/rigorous-lang/rigorous/store"
)

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Work with stored traces.",
}

var traceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored traces.",
	Run: func(cmd *cobra.Command, args []string) {
		withStore(cmd, func(s *store.Store) error {
			names, err := s.List()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		})
	},
}

var traceShowCmd = &cobra.Command{
	Use:   "show name",
	Short: "Print a stored trace.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		withStore(cmd, func(s *store.Store) error {
			r, err := s.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s (%s, saved %s)\n", r.Name, r.System, r.SavedAt.Format("2006-01-02 15:04:05"))
			for i, c := range r.Configurations {
				if i == 0 {
					fmt.Printf("   %s\n", c)
				} else {
					fmt.Printf("=> %s  [%s]\n", c, r.Rules[i-1])
				}
			}
			fmt.Printf("stopped: %s\n", r.StoppedBecause)
			return nil
		})
	},
}

var traceRmCmd = &cobra.Command{
	Use:   "rm name",
	Short: "Delete a stored trace.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		withStore(cmd, func(s *store.Store) error {
			return s.Delete(args[0])
		})
	},
}

func withStore(cmd *cobra.Command, f func(*store.Store) error) {
	filename, _ := cmd.Flags().GetString("db")
	s, err := store.NewStore(filename)
	if err != nil {
		fail(err)
	}
	if err := s.Open(); err != nil {
		fail(err)
	}
	defer s.Close()
	if err := f(s); err != nil {
		fail(err)
	}
}

func init() {
	traceCmd.AddCommand(traceListCmd, traceShowCmd, traceRmCmd)
	rootCmd.AddCommand(traceCmd)
}
