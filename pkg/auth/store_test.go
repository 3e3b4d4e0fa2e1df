package auth

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestManager(t *testing.T) {
	manager, mockStore := NewMockManager()

	// Store and retrieve
	if err := manager.Store("test_token_12345"); err != nil {
		t.Fatalf("Failed to store token: %v", err)
	}
	token, err := manager.Retrieve()
	if err != nil {
		t.Fatalf("Failed to retrieve token: %v", err)
	}
	if token != "test_token_12345" {
		t.Errorf("Token mismatch: got %s, want test_token_12345", token)
	}
	if !manager.Exists() {
		t.Error("Exists should report true after store")
	}
	if !mockStore.Exists() {
		t.Error("Token should have landed in the mock store")
	}

	// Empty tokens are rejected
	if err := manager.Store(""); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Store(\"\") = %v, want ErrInvalidToken", err)
	}

	// Delete
	if err := manager.Delete(); err != nil {
		t.Fatalf("Failed to delete token: %v", err)
	}
	if _, err := manager.Retrieve(); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("Retrieve after delete = %v, want ErrTokenNotFound", err)
	}
	if manager.Exists() {
		t.Error("Exists should report false after delete")
	}
}

func TestManagerFallsBackAcrossStores(t *testing.T) {
	broken := NewMockStore()
	broken.StoreError = ErrStoreUnavailable
	broken.RetrieveError = ErrStoreUnavailable
	broken.DeleteError = ErrStoreUnavailable
	good := NewMockStore()

	manager := NewMockManagerWithStores(broken, good)

	if err := manager.Store("fallback_token"); err != nil {
		t.Fatalf("Store should fall back to the working store: %v", err)
	}
	if !good.Exists() {
		t.Error("Token should be in the fallback store")
	}

	token, err := manager.Retrieve()
	if err != nil {
		t.Fatalf("Retrieve should fall back to the working store: %v", err)
	}
	if token != "fallback_token" {
		t.Errorf("Token mismatch: got %s, want fallback_token", token)
	}

	if err := manager.Delete(); err != nil {
		t.Errorf("Delete should succeed when any store deletes: %v", err)
	}
	if good.Exists() {
		t.Error("Token should be gone from the fallback store")
	}
}

func TestManagerAllStoresFail(t *testing.T) {
	broken := NewMockStore()
	broken.StoreError = ErrStoreUnavailable
	broken.RetrieveError = ErrStoreUnavailable
	broken.DeleteError = ErrStoreUnavailable

	manager := NewMockManagerWithStores(broken)

	if err := manager.Store("doomed_token"); err == nil {
		t.Error("Store should fail when every store fails")
	}
	if _, err := manager.Retrieve(); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("Retrieve = %v, want ErrTokenNotFound", err)
	}
	if err := manager.Delete(); err == nil {
		t.Error("Delete should fail when every store fails")
	}
}

func TestEncryptedFileStore(t *testing.T) {
	t.Setenv("PINDL_PASSPHRASE", "test_passphrase_123")
	tokenFile := filepath.Join(t.TempDir(), "token.enc")

	store := NewEncryptedFileStore(tokenFile)

	if err := store.Store("secret_pinterest_token_98765"); err != nil {
		t.Fatalf("Failed to store in encrypted file: %v", err)
	}

	token, err := store.Retrieve()
	if err != nil {
		t.Fatalf("Failed to retrieve from encrypted file: %v", err)
	}
	if token != "secret_pinterest_token_98765" {
		t.Errorf("Token mismatch after encryption round trip: got %s", token)
	}

	// File should not contain the plaintext token
	fileContent, err := os.ReadFile(tokenFile)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(fileContent, []byte("secret_pinterest_token_98765")) {
		t.Error("File contains plaintext token")
	}

	// A fresh store instance must decrypt the same file
	reopened := NewEncryptedFileStore(tokenFile)
	token, err = reopened.Retrieve()
	if err != nil {
		t.Fatalf("Failed to retrieve with a fresh store: %v", err)
	}
	if token != "secret_pinterest_token_98765" {
		t.Errorf("Token mismatch from fresh store: got %s", token)
	}

	// Delete removes the file
	if err := store.Delete(); err != nil {
		t.Fatalf("Failed to delete token file: %v", err)
	}
	if _, err := store.Retrieve(); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("Retrieve after delete = %v, want ErrTokenNotFound", err)
	}
	if err := store.Delete(); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("Second delete = %v, want ErrTokenNotFound", err)
	}
}

func TestEncryptedFileStoreMissingFile(t *testing.T) {
	dir := t.TempDir()
	store := NewEncryptedFileStore(filepath.Join(dir, "token.enc"))

	if _, err := store.Retrieve(); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("Retrieve on missing file = %v, want ErrTokenNotFound", err)
	}
	if store.Exists() {
		t.Error("Exists should report false for a missing file")
	}

	// Reading must not leave anything behind
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("Retrieve created %d files in the store directory", len(entries))
	}
}

func TestEncryptedFileStoreGeneratedPassphrase(t *testing.T) {
	t.Setenv("PINDL_PASSPHRASE", "")
	dir := t.TempDir()
	tokenFile := filepath.Join(dir, "token.enc")

	store := NewEncryptedFileStore(tokenFile)
	if err := store.Store("generated_pass_token"); err != nil {
		t.Fatalf("Failed to store: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, ".passphrase")); err != nil {
		t.Fatalf("Expected a generated .passphrase file: %v", err)
	}

	// A fresh instance must pick up the saved passphrase
	reopened := NewEncryptedFileStore(tokenFile)
	token, err := reopened.Retrieve()
	if err != nil {
		t.Fatalf("Failed to retrieve with generated passphrase: %v", err)
	}
	if token != "generated_pass_token" {
		t.Errorf("Token mismatch: got %s, want generated_pass_token", token)
	}
}

func TestEncryptedFileStoreRejectsEmptyToken(t *testing.T) {
	t.Setenv("PINDL_PASSPHRASE", "test_passphrase_123")
	store := NewEncryptedFileStore(filepath.Join(t.TempDir(), "token.enc"))

	if err := store.Store(""); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Store(\"\") = %v, want ErrInvalidToken", err)
	}
}

func TestMockStore(t *testing.T) {
	store := NewMockStore()

	if _, err := store.Retrieve(); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("Retrieve on empty store = %v, want ErrTokenNotFound", err)
	}

	if err := store.Store("mock_token"); err != nil {
		t.Errorf("Failed to store token: %v", err)
	}
	if !store.Exists() {
		t.Error("Token should exist after store")
	}

	// Error injection
	store.RetrieveError = errors.New("injected error")
	if _, err := store.Retrieve(); err == nil || err.Error() != "injected error" {
		t.Error("Expected injected retrieve error")
	}
	store.RetrieveError = nil

	if err := store.Delete(); err != nil {
		t.Errorf("Failed to delete token: %v", err)
	}
	if store.Exists() {
		t.Error("Token should be gone after delete")
	}
}
