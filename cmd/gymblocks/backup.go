package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hubastard/gymblocks/planner/store"
)

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export FILE",
		Short: "Write the plan and its uploaded images to a JSON backup (- for stdout)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, logger := configFromContext(ctx), loggerFromContext(ctx)

			st, err := store.Open(ctx, cfg.Storage.Path, logger.WithPrefix("store"))
			if err != nil {
				return err
			}
			defer st.Close()

			var w io.Writer = cmd.OutOrStdout()
			if args[0] != "-" {
				f, err := os.Create(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := st.Export(ctx, w); err != nil {
				return err
			}
			logger.Info("exported", "to", args[0])
			return nil
		},
	}
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the saved plan with a backup (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, logger := configFromContext(ctx), loggerFromContext(ctx)

			st, err := store.Open(ctx, cfg.Storage.Path, logger.WithPrefix("store"))
			if err != nil {
				return err
			}
			defer st.Close()

			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			fixes, err := st.Import(ctx, r, repairOptions(cfg))
			if err != nil {
				return err
			}
			logger.Info("imported", "from", args[0], "repairs", len(fixes))
			return nil
		},
	}
}
