package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fastnext-lab/filterbuilder-go/filter"
	"github.com/fastnext-lab/filterbuilder-go/preset"
)

func newPresetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage stored filter presets",
	}
	cmd.PersistentFlags().String("key", "filter-presets", "storage key of the preset list")

	cmd.AddCommand(
		newPresetListCommand(),
		newPresetExportCommand(),
		newPresetImportCommand(),
	)
	return cmd
}

func presetKey(cmd *cobra.Command) string {
	key, _ := cmd.Flags().GetString("key")
	if configured := viper.GetString("store.key"); key == "filter-presets" && configured != "" {
		return configured
	}
	return key
}

func newPresetListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List presets in the configured store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			presets, err := store.Load(cmd.Context(), presetKey(cmd))
			if err != nil {
				return err
			}
			if len(presets) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no presets")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCONDITIONS\tDEFAULT\tUPDATED")
			for _, p := range presets {
				count := 0
				if p.Filter != nil {
					count = filter.CountConditions(p.Filter.Root)
				}
				mark := ""
				if p.IsDefault {
					mark = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
					p.ID, p.Name, count, mark, p.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
}

func newPresetExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Export the preset list to an archive file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			presets, err := store.Load(cmd.Context(), presetKey(cmd))
			if err != nil {
				return err
			}

			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			if err := preset.WriteArchive(f, presets); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d presets to %s\n", len(presets), args[0])
			return nil
		},
	}
}

func newPresetImportCommand() *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import presets from an archive file",
		Long:  "Import presets from an archive file. Imported presets are appended to the stored list unless --replace is given.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			imported, err := preset.ReadArchive(f)
			if err != nil {
				return err
			}

			key := presetKey(cmd)
			merged := imported
			if !replace {
				existing, err := store.Load(cmd.Context(), key)
				if err != nil {
					return err
				}
				merged = append(existing, imported...)
			}

			if err := store.Save(cmd.Context(), key, merged); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d presets (%d stored)\n", len(imported), len(merged))
			return nil
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "replace the stored list instead of appending")
	return cmd
}
