package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pvs-dispatch/internal/config"
	"pvs-dispatch/internal/sweep"
)

var casesCmd = &cobra.Command{
	Use:   "cases",
	Short: "List the cases the sweep would run",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cases, err := sweep.Enumerate(cfg.Sweep.Spec())
		if err != nil {
			return err
		}
		for _, c := range cases {
			fmt.Fprintln(cmd.OutOrStdout(), c)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d cases\n", len(cases))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(casesCmd)
}
