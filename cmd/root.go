package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luma/doip/cmd/gen"
	"github.com/luma/doip/internal/meta"
)

var rootCmd = &cobra.Command{
	Use:   "doip",
	Short: "Talk to a DoIP home-automation central unit",
	Long: `doip is a client for the DoIP home-automation protocol.

It can run as a bridge daemon that mirrors the installation's state over
HTTP, or issue one-shot control commands against a live central unit.
`,
	Version: meta.Version,
}

func init() {
	rootCmd.AddCommand(ServeCmd)
	rootCmd.AddCommand(RelayCmd)
	rootCmd.AddCommand(gen.RootCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
