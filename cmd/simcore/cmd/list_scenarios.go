package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listScenariosCmd = &cobra.Command{
	Use:   "list-scenarios",
	Short: "List scenario files in a directory",
	Long:  `Scans a directory for *.json scenario files and prints their schema version and entity count.`,
	RunE:  listScenarios,
}

func init() {
	listScenariosCmd.Flags().StringP("dir", "d", ".", "directory to scan for scenario files")
}

type scenarioHeader struct {
	SchemaVersion string `json:"schema_version"`
	Entities      []struct {
		ID string `json:"id"`
	} `json:"entities"`
}

func listScenarios(cmd *cobra.Command, _ []string) error {
	dir, _ := cmd.Flags().GetString("dir")

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "FILE\tSCHEMA\tENTITIES")
	_, _ = fmt.Fprintln(w, "----\t------\t--------")

	found := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var header scenarioHeader
		if err := json.Unmarshal(data, &header); err != nil {
			continue
		}

		found++
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\n", entry.Name(), header.SchemaVersion, len(header.Entities))
	}

	if found == 0 {
		fmt.Println("no scenario files found")
		return nil
	}

	return w.Flush()
}
