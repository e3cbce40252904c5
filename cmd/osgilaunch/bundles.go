// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lauritziu/maven-osgi-plugin/pkg/bundle"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
	outputTOML = "toml"
)

type (
	bundleView struct {
		SymbolicName string `json:"symbolic_name" yaml:"symbolic_name" toml:"symbolic_name"`
		Version      string `json:"version" yaml:"version" toml:"version"`
		Path         string `json:"path" yaml:"path" toml:"path"`
		StartLevel   int    `json:"start_level" yaml:"start_level" toml:"start_level"`
		AutoStart    bool   `json:"auto_start" yaml:"auto_start" toml:"auto_start"`
		DirShape     bool   `json:"dir_shape" yaml:"dir_shape" toml:"dir_shape"`
	}

	warningView struct {
		Entry  string `json:"entry" yaml:"entry" toml:"entry"`
		Reason string `json:"reason" yaml:"reason" toml:"reason"`
		Error  string `json:"error,omitempty" yaml:"error,omitempty" toml:"error,omitempty"`
	}

	scanView struct {
		Bundles  []bundleView  `json:"bundles" yaml:"bundles" toml:"bundles"`
		Warnings []warningView `json:"warnings,omitempty" yaml:"warnings,omitempty" toml:"warnings,omitempty"`
	}
)

func newBundlesCommand(app *App, root *rootFlagValues) *cobra.Command {
	flags := &classpathFlagValues{}
	var output string

	cmd := &cobra.Command{
		Use:   "bundles",
		Short: "List the bundles found on the classpath with their start levels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.open(cmd.Context(), root, flags, nil)
			if err != nil {
				return app.fail(err, root.verbose)
			}
			return app.fail(writeScan(app.stdout, newScanView(s.scan), output), root.verbose)
		},
	}
	addClasspathFlags(cmd, flags)
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text, json, yaml or toml")
	return cmd
}

func newScanView(res *bundle.ScanResult) scanView {
	view := scanView{Bundles: []bundleView{}}
	for _, b := range res.Bundles.Sorted() {
		view.Bundles = append(view.Bundles, bundleView{
			SymbolicName: b.SymbolicName,
			Version:      b.VersionString(),
			Path:         b.Path,
			StartLevel:   b.StartLevel,
			AutoStart:    b.AutoStart,
			DirShape:     b.DirShape,
		})
	}
	for _, w := range res.Warnings {
		wv := warningView{Entry: w.Entry, Reason: w.Reason}
		if w.Err != nil {
			wv.Error = w.Err.Error()
		}
		view.Warnings = append(view.Warnings, wv)
	}
	return view
}

func writeScan(w io.Writer, view scanView, format string) error {
	switch format {
	case outputText:
		writeScanText(w, view)
		return nil
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(view); err != nil {
			return err
		}
		return enc.Close()
	case outputTOML:
		return toml.NewEncoder(w).Encode(view)
	default:
		return fmt.Errorf("unknown output format %q (want text, json, yaml or toml)", format)
	}
}

func writeScanText(w io.Writer, view scanView) {
	if len(view.Bundles) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("(no bundles found)"))
	}
	for _, b := range view.Bundles {
		level := strconv.Itoa(b.StartLevel)
		if b.AutoStart {
			level += " start"
		}
		fmt.Fprintf(w, "%s %s %s\n  %s\n", KeyStyle.Render(b.SymbolicName), b.Version, SubtitleStyle.Render("["+level+"]"), b.Path)
	}
	for _, warn := range view.Warnings {
		msg := warn.Entry + ": " + warn.Reason
		if warn.Error != "" {
			msg += ": " + warn.Error
		}
		fmt.Fprintln(w, WarningStyle.Render("skipped ")+msg)
	}
}
