package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"parsverse/pkg/imagegen"
	"parsverse/pkg/lore"
	"parsverse/pkg/utils"
)

var diagnose bool

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List the historical regions and their reference notes",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if diagnose {
			active := cfg.Active()
			images, err := imagegen.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Provider:   %s\n", cfg.Provider)
			fmt.Fprintf(out, "Model:      %s\n", active.Model)
			fmt.Fprintf(out, "Key:        %s\n", keyStatus(cfg.KeyPreview()))
			fmt.Fprintf(out, "Mode:       %s\n", cfg.Mode)
			fmt.Fprintf(out, "Images:     %s\n\n", images.Backend())
		}

		if format == formatJSON {
			fmt.Fprintln(out, utils.PrettyJSON(lore.All()))
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, info := range lore.All() {
			fmt.Fprintf(w, "%s\t%s\n", info.Region, strings.Join(info.Realms, ", "))
			fmt.Fprintf(w, "\t%s\n", info.Hint)
		}
		return w.Flush()
	},
}

func keyStatus(preview string) string {
	if preview == "" {
		return "not set"
	}
	return preview
}

func init() {
	regionsCmd.Flags().BoolVar(&diagnose, "diagnose", false, "Print the active provider and a key preview")
	rootCmd.AddCommand(regionsCmd)
}
