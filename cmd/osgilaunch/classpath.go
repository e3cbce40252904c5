// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var errEmptyClasspath = errors.New("no classpath entries given")

func addClasspathFlags(cmd *cobra.Command, cp *classpathFlagValues) {
	cmd.Flags().StringVar(&cp.classpath, "classpath", "", "classpath entries separated by the OS path-list separator")
	cmd.Flags().StringVar(&cp.classpathFile, "classpath-file", "", "file holding the classpath, one entry per line or a single path list")
	cmd.Flags().StringVar(&cp.configurationDir, "configuration-dir", "", "directory receiving config.ini and bundles.info (overrides the configuration)")
	cmd.Flags().StringVar(&cp.args, "args", "", "extra framework arguments as one shell-quoted string")
}

// readClasspath merges the --classpath list with the entries of file.
// Blank entries are dropped.
func readClasspath(list, file string) ([]string, error) {
	entries := splitEntries(list)
	if file == "" {
		return entries, nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	content := strings.TrimSpace(string(data))
	if strings.ContainsAny(content, "\r\n") {
		for line := range strings.Lines(content) {
			if line = strings.TrimSpace(line); line != "" {
				entries = append(entries, line)
			}
		}
		return entries, nil
	}
	return append(entries, splitEntries(content)...), nil
}

func splitEntries(list string) []string {
	var entries []string
	for _, entry := range filepath.SplitList(list) {
		if entry = strings.TrimSpace(entry); entry != "" {
			entries = append(entries, entry)
		}
	}
	return entries
}
