package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"timersync/internal/preferences"
	"timersync/internal/storage"
)

const (
	appName = "timersync"
	appID   = "io.timersync.core"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:           appName,
		Short:         "Background timer core with status surfaces and a local command relay",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "settings file (default: user config dir)")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newSendCmd())
	rootCmd.AddCommand(newWatchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadSettings never fails hard: a broken file is logged and defaults apply.
func loadSettings() preferences.Settings {
	var (
		settings preferences.Settings
		err      error
	)
	if configPath != "" {
		settings, err = storage.LoadSettingsFile(configPath)
	} else {
		settings, err = storage.LoadSettings(appName)
	}
	if err != nil {
		log.Printf("settings: %v", err)
	}
	return settings
}
