package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pindl/pkg/auth"
	"pindl/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the stored Pinterest access token",
	Long: `Manage the Pinterest access token stored by pindl.

The token is stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation (fallback)

A token in a pin_token file or in the PINDL_ACCESS_TOKEN environment
variable works without storing anything; storing is for keeping the token
out of plain files. Never share your token!`,
}

// authLoginCmd represents the auth login command
var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store a Pinterest access token securely",
	Long: `Prompt for a Pinterest access token and store it in the system keychain,
falling back to an encrypted file.

Get a token from:
  https://developers.pinterest.com/tools/access_token/`,
	Example: `  pindl auth login`,
	Args:    cobra.NoArgs,
	Run:     runAuthLogin,
}

// authStatusCmd represents the auth status command
var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a token is stored",
	Long:  `Show whether an access token is stored, with all but a few characters masked.`,
	Args:  cobra.NoArgs,
	Run:   runAuthStatus,
}

// authLogoutCmd represents the auth logout command
var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored token",
	Long:  `Remove the access token from the system keychain and the encrypted file.`,
	Args:  cobra.NoArgs,
	Run:   runAuthLogout,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authLogoutCmd)
}

func runAuthLogin(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize token storage", err.Error())
		os.Exit(1)
	}

	if manager.Exists() {
		reader := bufio.NewReader(os.Stdin)
		fmt.Print("A token is already stored. Replace it? (y/N): ")
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			ui.PrintWarning("Keeping the existing token")
			return
		}
	}

	fmt.Print("Pinterest access token (input is hidden): ")
	token, err := readPassword()
	if err != nil {
		ui.PrintError("Failed to read token", err.Error())
		os.Exit(1)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		ui.PrintError("Token is required")
		os.Exit(1)
	}

	if err := manager.Store(token); err != nil {
		ui.PrintError("Failed to store token", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Token stored: " + auth.MaskToken(token))
}

func runAuthStatus(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize token storage", err.Error())
		os.Exit(1)
	}

	token, err := manager.Retrieve()
	if err != nil {
		ui.PrintInfo("Stored token", "none")
		fmt.Println("\nRun 'pindl auth login' to store one.")
		return
	}

	ui.PrintInfo("Stored token", auth.MaskToken(token))
}

func runAuthLogout(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize token storage", err.Error())
		os.Exit(1)
	}

	if err := manager.Delete(); err != nil {
		if errors.Is(err, auth.ErrTokenNotFound) {
			ui.PrintInfo("Stored token", "none")
			return
		}
		ui.PrintError("Failed to remove token", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Token removed")
}

// readPassword reads a line from stdin without echoing
func readPassword() (string, error) {
	// Try to read without echo
	if term.IsTerminal(int(syscall.Stdin)) {
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println() // New line after password
		if err == nil {
			return string(password), nil
		}
	}

	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
