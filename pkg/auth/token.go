// Package auth resolves the Pinterest access token and manages its secure
// storage.
//
// The token is looked up in a fixed order: the --access-token flag, a
// pin_token file in the working directory, a pin_token file beside the
// executable, ~/.pin_token, the PINDL_ACCESS_TOKEN environment variable,
// and finally the stores written by `pindl auth login` (system keychain,
// then an encrypted file). The first non-empty source wins.
package auth

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const (
	tokenFileName     = "pin_token"
	homeTokenFileName = ".pin_token"
)

// ErrNoToken means no source in the resolution chain produced a token.
var ErrNoToken = errors.New("no access token found")

// ResolveToken returns the access token from the first source that has one.
// flagToken is the --access-token command line value, empty when unset.
func ResolveToken(flagToken string) (string, error) {
	manager, err := NewManager()
	if err != nil {
		// Token files and the environment still apply without stores.
		manager = &Manager{}
	}
	return resolveToken(flagToken, tokenFiles(), manager)
}

func resolveToken(flagToken string, files []string, stored *Manager) (string, error) {
	if token := strings.TrimSpace(flagToken); token != "" {
		return token, nil
	}

	for _, path := range files {
		if token := readTokenFile(path); token != "" {
			return token, nil
		}
	}

	if token := strings.TrimSpace(os.Getenv("PINDL_ACCESS_TOKEN")); token != "" {
		return token, nil
	}

	if stored != nil {
		if token, err := stored.Retrieve(); err == nil && token != "" {
			return token, nil
		}
	}

	return "", ErrNoToken
}

// tokenFiles returns the candidate token file paths in precedence order.
func tokenFiles() []string {
	paths := []string{tokenFileName}

	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), tokenFileName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, homeTokenFileName))
	}

	return paths
}

// readTokenFile returns the first non-empty line of the file, trimmed, or
// an empty string when the file is unreadable or has no content.
func readTokenFile(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			return line
		}
	}
	return ""
}

// TokenInstructions is the user-facing message printed when no access token
// could be found.
func TokenInstructions() string {
	return "You need to obtain an access token from Pinterest:\n" +
		"https://developers.pinterest.com/tools/access_token/\n" +
		"\n" +
		"Save it to a pin_token file (working directory, next to the executable,\n" +
		"or ~/.pin_token), or run 'pindl auth login' to store it securely."
}

// MaskToken masks all but the first 4 and last 4 characters of a token.
func MaskToken(token string) string {
	if len(token) <= 8 {
		return "********"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
