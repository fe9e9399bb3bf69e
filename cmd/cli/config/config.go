package config

import (
	"os"
	"path/filepath"
)

const defaultAPIURL = "http://localhost:8080"

const tokenFileName = ".giftreg_token"

// APIURL returns the base URL for the Gift Registry API.
// It can be overridden with the GIFT_REGISTRY_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("GIFT_REGISTRY_API_URL"); v != "" {
		return v
	}
	return defaultAPIURL
}

// SaveToken stores the session token in the user's home directory so later
// commands can authenticate.
func SaveToken(token string) error {
	return os.WriteFile(tokenPath(), []byte(token), 0600)
}

// ReadToken returns the locally stored session token.
func ReadToken() (string, error) {
	data, err := os.ReadFile(tokenPath())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ClearToken removes the stored token. Missing file is not an error.
func ClearToken() error {
	err := os.Remove(tokenPath())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func tokenPath() string {
	dir, _ := os.UserHomeDir()
	return filepath.Join(dir, tokenFileName)
}
