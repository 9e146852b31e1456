package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fastnext-lab/filterbuilder-go/filter"
)

func newEncodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "encode [file]",
		Short: "Encode a JSON filter tree into a token",
		Long:  "Encode a JSON filter tree into a URL-safe token. Reads the tree from the given file, or from stdin when no file is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if len(args) == 1 {
				data, err = os.ReadFile(args[0])
			} else {
				data, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}

			state, err := filter.ParseState(data)
			if err != nil {
				return err
			}
			token := filter.Serialize(state)
			if token == "" {
				return fmt.Errorf("tree does not serialize")
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}
