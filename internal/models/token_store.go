package models

import (
	"os"
	"path/filepath"
	"strings"
)

// TokenStore keeps the session token issued by the service's login flow
type TokenStore struct {
	TokenFile string
}

func NewTokenStore(configDir string) *TokenStore {
	return &TokenStore{
		TokenFile: filepath.Join(configDir, ".session_token"),
	}
}

func (ts *TokenStore) SaveToken(token string) error {
	if err := os.MkdirAll(filepath.Dir(ts.TokenFile), 0700); err != nil {
		return err
	}
	return os.WriteFile(ts.TokenFile, []byte(strings.TrimSpace(token)), 0600)
}

// GetToken returns the stored token, or "" when none was saved
func (ts *TokenStore) GetToken() (string, error) {
	data, err := os.ReadFile(ts.TokenFile)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (ts *TokenStore) ClearToken() error {
	if _, err := os.Stat(ts.TokenFile); os.IsNotExist(err) {
		return nil
	}
	return os.Remove(ts.TokenFile)
}
