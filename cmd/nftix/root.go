package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ravkun27/nftix/pkg/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "nftix",
	Short: "NFTix ticket catalog and mint service",
	Long: `NFTix serves an event catalog as NFT ticket cards, lets a connected
wallet mint tickets and streams countdowns to event start.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.env)")
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.LoadWithPath(cfgFile)
	}
	return config.Load()
}
