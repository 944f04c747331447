package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/listenupapp/pagetrail/internal/service"
)

func newExportCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the whole library as JSON to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLibrary(cmd, flags, func(library *service.LibraryService) error {
				return writeJSON(cmd, library.Export(cmd.Context()))
			})
		},
	}
}

func newImportCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the library with a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0]) //#nosec G304 -- path is a user argument
			if err != nil {
				return fmt.Errorf("read export: %w", err)
			}

			var snap service.Snapshot
			if err := json.Unmarshal(data, &snap); err != nil {
				return fmt.Errorf("decode export: %w", err)
			}

			return withLibrary(cmd, flags, func(library *service.LibraryService) error {
				n, err := library.Import(cmd.Context(), snap)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d entries\n", n)
				return nil
			})
		},
	}
}
