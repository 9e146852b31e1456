package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fastnext-lab/filterbuilder-go/filter"
)

func newSQLCommand() *cobra.Command {
	var (
		dialect    string
		withParams bool
		columns    []string
	)

	cmd := &cobra.Command{
		Use:   "sql <token>",
		Short: "Render the WHERE clause a filter token translates to",
		Long:  "Render the WHERE clause a filter token translates to, using the field schema from the config file.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := loadSchema()
			if err != nil {
				return err
			}
			state, err := filter.ParseToken(args[0])
			if err != nil {
				return err
			}

			opts := &filter.EncoderOptions{Dialect: filter.Dialect(dialect)}
			for _, mapping := range columns {
				key, col, found := strings.Cut(mapping, "=")
				if !found {
					return fmt.Errorf("invalid column mapping %q, want field=column", mapping)
				}
				if opts.ColumnMapping == nil {
					opts.ColumnMapping = make(map[string]string)
				}
				opts.ColumnMapping[key] = col
			}

			enc := filter.NewSQLEncoder(schema, opts)
			if withParams {
				clause, params := enc.EncodeParams(state)
				if clause == "" {
					return fmt.Errorf("nothing to encode")
				}
				fmt.Fprintln(cmd.OutOrStdout(), clause)
				for i, p := range params {
					fmt.Fprintf(cmd.OutOrStdout(), "-- $%d = %v\n", i+1, p)
				}
				return nil
			}

			clause := enc.EncodeState(state)
			if clause == "" {
				return fmt.Errorf("nothing to encode")
			}
			fmt.Fprintln(cmd.OutOrStdout(), clause)
			return nil
		},
	}

	cmd.Flags().StringVar(&dialect, "dialect", string(filter.DialectDuckDB), "target dialect: duckdb or postgres")
	cmd.Flags().BoolVar(&withParams, "params", false, "emit bind placeholders and list the arguments")
	cmd.Flags().StringArrayVar(&columns, "column", nil, "field=column mapping (repeatable)")
	return cmd
}
