package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) nextAWBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next-awb",
		Short: "Print the next sub-bag AWB (DDMMYYYY + 4-digit counter)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, closeFn, err := a.generator(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			fmt.Fprintln(cmd.OutOrStdout(), gen.SubBagAWB(cmd.Context()))
			return nil
		},
	}
}

func (a *app) nextMFCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next-mf",
		Short: "Print the next manifest number (MF + 3-digit counter)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, closeFn, err := a.generator(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			fmt.Fprintln(cmd.OutOrStdout(), gen.ManifestNumber(cmd.Context()))
			return nil
		},
	}
}
