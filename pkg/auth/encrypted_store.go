package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 32
	keySize    = 32
	iterations = 100000
)

// EncryptedFileStore implements TokenStore using an encrypted file. The key
// is derived with PBKDF2 from a passphrase taken from PINDL_PASSPHRASE or
// from a generated .passphrase file next to the token file.
type EncryptedFileStore struct {
	filepath string
	mu       sync.RWMutex

	passOnce   sync.Once
	passphrase string
	passErr    error
}

// tokenPayload is the structure encrypted into the file
type tokenPayload struct {
	AccessToken string    `json:"access_token"`
	Modified    time.Time `json:"modified"`
}

// NewEncryptedFileStore creates a new encrypted file-based token store.
// Nothing is read or written until the store is first used.
func NewEncryptedFileStore(filePath string) *EncryptedFileStore {
	return &EncryptedFileStore{filepath: filePath}
}

// Store saves the token to the encrypted file
func (e *EncryptedFileStore) Store(token string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if token == "" {
		return ErrInvalidToken
	}

	return e.saveData(&tokenPayload{
		AccessToken: token,
		Modified:    time.Now(),
	})
}

// Retrieve gets the token from the encrypted file
func (e *EncryptedFileStore) Retrieve() (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	payload, err := e.loadData()
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrTokenNotFound
		}
		return "", err
	}
	if payload.AccessToken == "" {
		return "", ErrTokenNotFound
	}

	return payload.AccessToken, nil
}

// Delete removes the encrypted file
func (e *EncryptedFileStore) Delete() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := os.Remove(e.filepath); err != nil {
		if os.IsNotExist(err) {
			return ErrTokenNotFound
		}
		return fmt.Errorf("failed to delete token file: %w", err)
	}
	return nil
}

// Exists checks if a decryptable token is stored
func (e *EncryptedFileStore) Exists() bool {
	token, err := e.Retrieve()
	return err == nil && token != ""
}

// loadData loads and decrypts the token file
func (e *EncryptedFileStore) loadData() (*tokenPayload, error) {
	content, err := os.ReadFile(e.filepath)
	if err != nil {
		return nil, err
	}

	var fileData struct {
		Salt      string `json:"salt"`
		Encrypted string `json:"encrypted"`
	}
	if err := json.Unmarshal(content, &fileData); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}

	salt, err := base64.StdEncoding.DecodeString(fileData.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to decode salt: %w", err)
	}
	encrypted, err := base64.StdEncoding.DecodeString(fileData.Encrypted)
	if err != nil {
		return nil, fmt.Errorf("failed to decode encrypted data: %w", err)
	}

	passphrase, err := e.getPassphrase()
	if err != nil {
		return nil, err
	}
	key := pbkdf2.Key([]byte(passphrase), salt, iterations, keySize, sha256.New)

	decrypted, err := decrypt(encrypted, key)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt token file: %w", err)
	}

	var payload tokenPayload
	if err := json.Unmarshal(decrypted, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse decrypted payload: %w", err)
	}

	return &payload, nil
}

// saveData encrypts and writes the token file atomically
func (e *EncryptedFileStore) saveData(payload *tokenPayload) error {
	passphrase, err := e.getPassphrase()
	if err != nil {
		return err
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}
	key := pbkdf2.Key([]byte(passphrase), salt, iterations, keySize, sha256.New)

	plaintext, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	encrypted, err := encrypt(plaintext, key)
	if err != nil {
		return fmt.Errorf("failed to encrypt token: %w", err)
	}

	fileData := struct {
		Salt      string    `json:"salt"`
		Encrypted string    `json:"encrypted"`
		Version   int       `json:"version"`
		Modified  time.Time `json:"modified"`
	}{
		Salt:      base64.StdEncoding.EncodeToString(salt),
		Encrypted: base64.StdEncoding.EncodeToString(encrypted),
		Version:   1,
		Modified:  payload.Modified,
	}

	content, err := json.MarshalIndent(fileData, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(e.filepath), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	tempFile := e.filepath + ".tmp"
	if err := os.WriteFile(tempFile, content, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return os.Rename(tempFile, e.filepath)
}

// getPassphrase resolves the encryption passphrase once per store instance
func (e *EncryptedFileStore) getPassphrase() (string, error) {
	e.passOnce.Do(func() {
		e.passphrase, e.passErr = loadOrCreatePassphrase(filepath.Dir(e.filepath))
	})
	return e.passphrase, e.passErr
}

// loadOrCreatePassphrase returns PINDL_PASSPHRASE when set, otherwise the
// content of dir/.passphrase, generating and saving one on first use.
func loadOrCreatePassphrase(dir string) (string, error) {
	if pass := os.Getenv("PINDL_PASSPHRASE"); pass != "" {
		return pass, nil
	}

	passphraseFile := filepath.Join(dir, ".passphrase")
	if content, err := os.ReadFile(passphraseFile); err == nil && len(content) > 0 {
		return string(content), nil
	}

	b := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", fmt.Errorf("failed to generate passphrase: %w", err)
	}
	passphrase := base64.URLEncoding.EncodeToString(b)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create passphrase directory: %w", err)
	}
	if err := os.WriteFile(passphraseFile, []byte(passphrase), 0600); err != nil {
		return "", fmt.Errorf("failed to save passphrase: %w", err)
	}

	return passphrase, nil
}

// encrypt encrypts data using AES-GCM
func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// decrypt decrypts data using AES-GCM
func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
