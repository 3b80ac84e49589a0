package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/zalando/go-keyring"
	"golang.org/x/crypto/pbkdf2"

	"quill/internal/common"
)

const (
	// Keyring service name
	keyringService = "quill"
	// Keyring entry for the hosting-API token
	tokenName = "api-token"
	// Salt for key derivation
	saltSize = 32
	// Number of iterations for PBKDF2
	pbkdf2Iterations = 100000
	// Key size for AES-256
	keySize = 32
)

// TokenStore keeps the hosting-API token in the OS keyring when one is
// available, falling back to an AES-encrypted file under ~/.quill.
type TokenStore struct {
	useKeyring bool
	masterKey  []byte
}

// NewTokenStore creates a token store
func NewTokenStore() (*TokenStore, error) {
	ts := &TokenStore{
		useKeyring: isKeyringAvailable(),
	}

	// Initialize master key if not using system keyring
	if !ts.useKeyring {
		key, err := ts.getMasterKey()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize master key: %w", err)
		}
		ts.masterKey = key
	}

	return ts, nil
}

// SetToken stores the API token
func (ts *TokenStore) SetToken(token string) error {
	if ts.useKeyring {
		if err := keyring.Set(keyringService, tokenName, token); err != nil {
			return fmt.Errorf("failed to store in keyring: %w", err)
		}
		return nil
	}

	encrypted, err := ts.encrypt(token)
	if err != nil {
		return fmt.Errorf("failed to encrypt token: %w", err)
	}
	if err := os.MkdirAll(ts.credentialsDir(), common.DirPermissionSecure); err != nil {
		return err
	}
	return os.WriteFile(ts.tokenPath(), []byte(encrypted), common.FilePermissionSecure)
}

// Token retrieves the stored API token; an empty string means no token
// has been stored.
func (ts *TokenStore) Token() (string, error) {
	if ts.useKeyring {
		token, err := keyring.Get(keyringService, tokenName)
		if err != nil {
			if err == keyring.ErrNotFound {
				return "", nil
			}
			return "", fmt.Errorf("failed to get from keyring: %w", err)
		}
		return token, nil
	}

	data, err := os.ReadFile(ts.tokenPath())
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return ts.decrypt(string(data))
}

// DeleteToken removes the stored API token
func (ts *TokenStore) DeleteToken() error {
	if ts.useKeyring {
		if err := keyring.Delete(keyringService, tokenName); err != nil && err != keyring.ErrNotFound {
			return err
		}
		return nil
	}
	if err := os.Remove(ts.tokenPath()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Encryption methods

func (ts *TokenStore) encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(ts.masterKey)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

func (ts *TokenStore) decrypt(ciphertext string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(ts.masterKey)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}

	nonce, encryptedData := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, encryptedData, nil)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}

// Helper methods

func (ts *TokenStore) getMasterKey() ([]byte, error) {
	keyPath := ts.masterKeyPath()

	validatedPath, err := common.ValidatePath(keyPath, ts.credentialsDir())
	if err != nil {
		return nil, fmt.Errorf("invalid master key path: %w", err)
	}

	// Reuse an existing key
	data, err := os.ReadFile(validatedPath) // #nosec G304 - path is validated
	if err == nil {
		if len(data) != saltSize+keySize {
			return nil, fmt.Errorf("invalid master key file size")
		}
		return data[saltSize:], nil
	}

	// Generate a new master key
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}

	key := pbkdf2.Key([]byte(machineID()), salt, pbkdf2Iterations, keySize, sha256.New)

	keyData := append(salt, key...)
	if err := os.MkdirAll(ts.credentialsDir(), common.DirPermissionSecure); err != nil {
		return nil, err
	}
	if err := os.WriteFile(validatedPath, keyData, common.FilePermissionSecure); err != nil { // #nosec G304
		return nil, err
	}

	return key, nil
}

func (ts *TokenStore) credentialsDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".quill", "credentials")
}

func (ts *TokenStore) tokenPath() string {
	return filepath.Join(ts.credentialsDir(), tokenName+".cred")
}

func (ts *TokenStore) masterKeyPath() string {
	return filepath.Join(ts.credentialsDir(), ".master")
}

// Platform-specific helpers

func isKeyringAvailable() bool {
	// Check if keyring usage is explicitly disabled
	if os.Getenv("QUILL_USE_KEYRING") == "false" {
		return false
	}

	switch runtime.GOOS {
	case "darwin", "windows":
		return true
	case "linux":
		// Check if a supported keyring backend is available
		if os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != "" {
			return true
		}
	}
	return false
}

func machineID() string {
	hostname, _ := os.Hostname()
	user := os.Getenv("USER")
	if user == "" {
		user = os.Getenv("USERNAME")
	}

	data := fmt.Sprintf("%s-%s-%s-%s", hostname, user, runtime.GOOS, runtime.GOARCH)
	hash := sha256.Sum256([]byte(data))
	return base64.StdEncoding.EncodeToString(hash[:])
}
