/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/godmath04/newsfront/internal/backend"
	"github.com/godmath04/newsfront/internal/config"
	"github.com/godmath04/newsfront/internal/container"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "newsfront",
	Short: "Terminal client for the Portal Periodístico",
	Long: `Newsfront is the terminal client for the Portal Periodístico.
Reporters draft and submit articles, reviewer roles approve or reject
them, and approved articles become publicly readable. The client talks
to the portal's backend services over HTTP; "newsfront serve" runs a
local emulator of those services for offline development.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file path (default: config.yaml)")
}

// newContainer loads configuration and wires the client. It runs before
// every command, which is also when the session is initialized from the
// persisted credential.
func newContainer(cmd *cobra.Command) (*container.Container, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return container.New(cfg)
}

// checkSessionExpiry forces a logout when an authenticated call reported
// a rejected credential, so the next command starts from a clean
// logged-out state.
func checkSessionExpiry(ctr *container.Container, err error) error {
	if err == nil || !backend.IsSessionExpired(err) {
		return err
	}
	if logoutErr := ctr.Session().Logout(); logoutErr != nil {
		ctr.Logger().WithError(logoutErr).Warn("failed to clear expired credential")
	}
	return fmt.Errorf("%s", err.Error())
}
