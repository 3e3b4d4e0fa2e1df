package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"pindl/pkg/config"
	"pindl/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage pindl configuration files.

Configuration is loaded from (highest priority first):
  - Command line flags
  - Environment variables (PINDL_*)
  - Configuration file
  - Default values`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file is created as '.pindl.yaml' in the current directory unless a
different path is given with the --config flag.`,
	Args: cobra.NoArgs,
	Run:  runConfigInit,
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the configuration after merging all sources: command line flags,
environment variables, the configuration file, and defaults.`,
	Args: cobra.NoArgs,
	Run:  runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	configPath := configFile
	if configPath == "" {
		configPath = ".pindl.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		os.Exit(1)
	}

	exampleConfig := `# pindl configuration file
#
# Every option can also be set through an environment variable prefixed
# with PINDL_, for example PINDL_THREADS or PINDL_OUT_DIR.
# The access token is not configured here; see 'pindl auth --help'.

# Pinterest API settings
api:
  # API base URL
  # Leave empty for the default (https://api.pinterest.com/v1/)
  base_url: ""

  # User-Agent header sent with every request
  # Leave empty for the default
  user_agent: ""

# Download settings
download:
  # Number of concurrent image downloads per page
  # Must be at least 1
  threads: 10

  # HTTP timeout per request, e.g. 30s or 2m
  # Zero means no timeout
  timeout: 0s

# Output settings
output:
  # Directory boards are saved into
  base_directory: "."

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: "info"

  # Log file path (optional)
  # Leave empty to log to stderr only
  file: ""
`

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		ui.PrintError("Failed to create configuration file", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Edit the file to taste")
	fmt.Println("2. Check the result with 'pindl config show'")
	fmt.Println("3. Start downloading with 'pindl <board>'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		ui.PrintError("Failed to format configuration", err.Error())
		os.Exit(1)
	}

	fmt.Print(string(data))

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (PINDL_*)")
	if configFile != "" {
		fmt.Printf("3. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("3. Configuration file: (searched in default locations)")
	}
	fmt.Println("4. Default values")
}
