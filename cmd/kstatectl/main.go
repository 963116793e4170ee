/*
 *
 * Copyright 2025 The kstate authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

// kstatectl inspects and pokes shared states from the command line.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ElliottH/kstate"
	"github.com/ElliottH/kstate/internal/segment"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "kstatectl",
	Short: "Read, write and manage named shared states",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.WarnLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		kstate.SetLogger(zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}).Level(level).With().Timestamp().Logger())
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var writeCmd = &cobra.Command{
	Use:   "write NAME [DATA]",
	Short: "Write bytes into a state, creating it if needed",
	Long: `Write subscribes to NAME read-write, creating the state if it does not
exist, and copies DATA (or standard input when DATA is omitted) into the
state's page. The rest of the page is zeroed.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		if len(args) == 2 {
			data = []byte(args[1])
		} else {
			var err error
			data, err = io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading standard input: %w", err)
			}
		}

		state := kstate.NewState()
		if err := state.Subscribe(args[0], kstate.Read|kstate.Write); err != nil {
			return err
		}
		defer state.Close()

		page := state.Bytes()
		if len(data) > len(page) {
			return fmt.Errorf("data is %d bytes but the state holds %d", len(data), len(page))
		}
		n := copy(page, data)
		for i := n; i < len(page); i++ {
			page[i] = 0
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", n, state.Name())
		return nil
	},
}

var readCmd = &cobra.Command{
	Use:   "read NAME",
	Short: "Print a state's bytes, trimmed of trailing zeros",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		state := kstate.NewState()
		if err := state.Subscribe(args[0], kstate.Read); err != nil {
			return err
		}
		defer state.Close()

		data := bytes.TrimRight(state.Bytes(), "\x00")
		cmd.OutOrStdout().Write(data)
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	},
}

var infoCmd = &cobra.Command{
	Use:   "info NAME",
	Short: "Show a state's name, permissions and size",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		state := kstate.NewState()
		if err := state.Subscribe(args[0], kstate.Read); err != nil {
			return err
		}
		defer state.Close()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "name:        %s\n", state.Name())
		fmt.Fprintf(out, "permissions: %s\n", state.Permissions())
		fmt.Fprintf(out, "size:        %d bytes\n", len(state.Bytes()))
		used := len(bytes.TrimRight(state.Bytes(), "\x00"))
		fmt.Fprintf(out, "used:        %d bytes\n", used)
		return nil
	},
}

var nameCmd = &cobra.Command{
	Use:   "name PREFIX",
	Short: "Generate a collision-resistant state name from a prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := kstate.GenerateUniqueName(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), name)
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove NAME",
	Short: "Remove a state's backing segment",
	Long: `Remove unlinks NAME's backing segment. Processes that already have the
state mapped keep their mappings; future subscriptions will recreate it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := kstate.ValidateStateName(args[0]); err != nil {
			return err
		}
		return segment.Remove(args[0])
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug diagnostics")
	rootCmd.AddCommand(writeCmd, readCmd, infoCmd, nameCmd, removeCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
