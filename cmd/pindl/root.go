package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"pindl/pkg/auth"
	"pindl/pkg/config"
	"pindl/pkg/logger"
	"pindl/pkg/scraper"
	"pindl/pkg/ui"
)

var (
	// Version information, overridable at build time via -ldflags
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile  string
	accessToken string
	outDir      string
	threads     int
	batchFile   string
	debug       bool
)

// rootCmd is the download command; pindl has no separate "download" verb.
var rootCmd = &cobra.Command{
	Use:   "pindl [flags] BOARD...",
	Short: "Download Pinterest boards as image files",
	Long: `pindl downloads all pins of the given Pinterest boards as image files.

A board can be referenced by its URL (https://www.pinterest.com/user/board/),
by its user/board path, or by its numeric ID. The special reference 'all'
downloads every public board of the authenticated user.

Each board is saved to a directory named after its URL path. Downloads are
resumable: a checkpoint file next to the board directory records the last
fully downloaded page, and the next run picks up from there. Pins already on
disk are skipped, or renamed when their note changed since the download.`,
	Example: `  # Download one board by URL
  pindl https://www.pinterest.com/alice/recipes/

  # Download several boards by path
  pindl alice/recipes alice/travel

  # Download all of your public boards into a target directory
  pindl --out-dir ~/Pictures/pinterest all

  # Read board references from a file, one per line
  pindl --batch-file boards.txt`,
	Args: cobra.ArbitraryArgs,
	Run:  runDownload,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./.pindl.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	rootCmd.Flags().StringVarP(&accessToken, "access-token", "a", "", "Pinterest API access token")
	rootCmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "directory to save boards into (default: current directory)")
	rootCmd.Flags().IntVarP(&threads, "threads", "t", 10, "number of concurrent downloads per page")
	rootCmd.Flags().StringVarP(&batchFile, "batch-file", "b", "", "file with additional board references, one per line ('-' for stdin)")

	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate)
	rootCmd.SetVersionTemplate(`pindl {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

func runDownload(cmd *cobra.Command, args []string) {
	boards := make([]string, 0, len(args))
	for _, arg := range args {
		if ref := strings.TrimSpace(arg); ref != "" {
			boards = append(boards, ref)
		}
	}

	if batchFile != "" {
		fromFile, err := readBatchFile(batchFile)
		if err != nil {
			ui.PrintError("Failed to read batch file", err.Error())
			os.Exit(1)
		}
		boards = append(boards, fromFile...)
	}

	if len(boards) == 0 {
		ui.PrintError("No boards given")
		fmt.Println()
		_ = cmd.Usage()
		os.Exit(1)
	}

	// Build flags map from command line
	flags := make(map[string]interface{})
	if outDir != "" {
		flags["out-dir"] = outDir
	}
	if cmd.Flags().Changed("threads") {
		if threads < 1 {
			ui.PrintError("Invalid thread count", "--threads must be at least 1")
			os.Exit(1)
		}
		flags["threads"] = threads
	}
	if debug {
		flags["debug"] = true
	}

	// Resolve the access token before any network activity
	token, err := auth.ResolveToken(accessToken)
	if err != nil {
		ui.PrintError("No Pinterest access token found")
		fmt.Println()
		fmt.Println(auth.TokenInstructions())
		os.Exit(1)
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logging", err.Error())
		os.Exit(1)
	}
	logger.WithField("version", version).Debug("pindl starting")

	s, err := scraper.New(cfg, token)
	if err != nil {
		ui.PrintError("Failed to initialize downloader", err.Error())
		os.Exit(1)
	}

	s.Run(boards)
}

// readBatchFile returns the board references in the file, one per line,
// skipping blank lines. "-" reads from standard input.
func readBatchFile(path string) ([]string, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var refs []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			refs = append(refs, line)
		}
	}
	return refs, scanner.Err()
}
