package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/redraftapp/redraft/internal/config"
	"github.com/redraftapp/redraft/internal/ui"
	"github.com/spf13/cobra"
)

// isSensitiveConfigKey reports whether a config key holds a secret that
// must never be echoed in full.
func isSensitiveConfigKey(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	return strings.Contains(key, "api_key")
}

// maskSecret keeps just enough of a secret to recognize it.
func maskSecret(value string) string {
	if len(value) < 12 {
		return "***"
	}
	return value[:4] + "***" + value[len(value)-4:]
}

var rootCmd = &cobra.Command{
	Use:   "redraft",
	Short: "AI writing assistant with reversible corrections",
	Long: `redraft checks your writing with an AI model and lets you toggle each
suggested correction on or off independently before copying the result.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := ui.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var setCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a config value",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := config.Set(args[0], args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Set %s = %s\n", args[0], args[1])
	},
}

var getCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Get a config value",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		value := config.Get(args[0])
		if s, ok := value.(string); ok && isSensitiveConfigKey(args[0]) {
			value = maskSecret(s)
		}
		fmt.Printf("%s = %v\n", args[0], value)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		configPath, err := config.Dir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if err := os.MkdirAll(configPath, config.ConfigDirPerm); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if err := config.Save(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Configuration initialized at %s\n", filepath.Join(configPath, "config.yaml"))
		fmt.Println("Set your API key with: redraft config set api_key YOUR_KEY")
	},
}

func init() {
	configCmd.AddCommand(setCmd)
	configCmd.AddCommand(getCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(initCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
