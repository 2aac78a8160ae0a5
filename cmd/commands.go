package main

import "github.com/spf13/cobra"

var (
	rootCmd = &cobra.Command{
		Use:           "vaultwire",
		Short:         "vaultwire device emulator.",
		Long:          ``,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
)

func Execute() error {
	return rootCmd.Execute()
}
