package main

import (
	"github.com/spf13/cobra"
)

var configPath string

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "regmond",
		Short: "ipns.io registration monitor daemon",
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (defaults plus env overrides when unset)")

	InitRootCmd(rootCmd) // add subcommands like `start` and `version`

	return rootCmd
}
