/*
   Copyright 2025 The DIRPX Authors.

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

// Package cli implements the extpoint operator commands. Host binaries that
// declare extensions can mount NewRootCommand to inspect them.
package cli

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"dirpx.dev/extpoint"
	"dirpx.dev/extpoint/config"
	"dirpx.dev/extpoint/manifest"
	"dirpx.dev/extpoint/overlay"
	uref "dirpx.dev/extpoint/utils/reflect"
)

// ExitError is an error that carries a process exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

type options struct {
	configPath string
	logLevel   string
	logFormat  string
}

// NewRootCommand builds the command tree. Command output goes to out,
// diagnostics to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "extpoint",
		Short:         "Inspect declared extensions and operator overlays",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to a configuration file (yaml, toml or json).")
	flags.StringVar(&opts.logLevel, "log-level", "", "Logging level: debug, info, warn or error.")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log output format: text or json.")

	root.AddCommand(
		newListCommand(opts),
		newCheckCommand(),
		newConvertCommand(),
	)
	return root
}

// load reads settings and applies flag overrides on top of them.
func (o *options) load(errOut io.Writer) error {
	s, err := config.ReadSettings(o.configPath)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	if o.logLevel != "" {
		s.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		s.Log.Format = o.logFormat
	}
	cfg, err := s.Build(errOut)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	extpoint.SetConfig(cfg)
	return nil
}

func newListCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Discover every declared extension point and print its instances in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.load(cmd.ErrOrStderr()); err != nil {
				return err
			}
			extpoint.Start()
			defer extpoint.Stop()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			failed := 0
			for _, point := range manifest.Default.Points() {
				e := extpoint.LookupType(point)
				fmt.Fprintf(tw, "%s\t%d\n", uref.ClassName(point), e.Len())
				for i, v := range e.Snapshot() {
					fmt.Fprintf(tw, "  %d\t%s\n", i, uref.ClassName(reflect.TypeOf(v)))
				}
				for _, err := range e.Failures() {
					fmt.Fprintf(tw, "  !\t%v\n", err)
					failed++
				}
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if failed > 0 {
				return &ExitError{Code: 1, Message: fmt.Sprintf("%d extension(s) failed to load", failed)}
			}
			return nil
		},
	}
}

func newCheckCommand() *cobra.Command {
	var known []string
	cmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Validate an overlay file against the declared component names",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := overlay.Load(args[0])
			if err != nil {
				return &ExitError{Code: 2, Message: err.Error()}
			}
			names := known
			if len(names) == 0 {
				names = declaredNames()
			}
			if err := o.Check(names); err != nil {
				return &ExitError{Code: 1, Message: err.Error()}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d component(s) OK\n", args[0], len(o.Components))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&known, "known", nil, "Known component names. Defaults to every declared candidate.")
	return cmd
}

func newConvertCommand() *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "convert FILE",
		Short: "Rewrite an overlay file as hcl or yaml on standard output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var write func(io.Writer, *overlay.Overlay) error
			switch to {
			case "hcl":
				write = overlay.WriteHCL
			case "yaml", "yml":
				write = overlay.WriteYAML
			default:
				return &ExitError{Code: 2, Message: fmt.Sprintf("invalid --to %q (valid: hcl, yaml)", to)}
			}
			o, err := overlay.Load(args[0])
			if err != nil {
				return &ExitError{Code: 2, Message: err.Error()}
			}
			return write(cmd.OutOrStdout(), o)
		},
	}
	cmd.Flags().StringVar(&to, "to", "yaml", "Output format: hcl or yaml.")
	return cmd
}

func declaredNames() []string {
	var out []string
	for _, p := range manifest.Default.Points() {
		out = append(out, manifest.Default.Names(p)...)
	}
	sort.Strings(out)
	return out
}
