package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgallion1/pagenav/internal/pipeline"
	"github.com/spf13/cobra"
)

var outlineJSON bool

var outlineCmd = &cobra.Command{
	Use:   "outline <file>",
	Short: "Print the section outline the navigation would link to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		w := pipeline.NewWorker(newLogger(), cfg.Shell(), cfg.NavConfig(), cfg.PDFFallbackPdftotext)
		o, err := w.Outline(data, filepath.Base(args[0]), "")
		if err != nil {
			return err
		}

		if outlineJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(o)
		}
		fmt.Fprint(cmd.OutOrStdout(), o.String())
		return nil
	},
}

func init() {
	outlineCmd.Flags().BoolVar(&outlineJSON, "json", false, "print JSON")
	rootCmd.AddCommand(outlineCmd)
}
