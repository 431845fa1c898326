package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// “Service” groups the app’s secrets in the OS keychain.
	KeyringService = "jobscout"
)

// GetAPIKey reads a provider API key from the OS keychain. Callers
// decide their own env-var fallback; the keychain is the recommended
// home for anything long-lived.
func GetAPIKey(keyringAccount string) (string, error) {
	if strings.TrimSpace(keyringAccount) != "" {
		key, err := keyring.Get(KeyringService, keyringAccount)
		if err == nil && strings.TrimSpace(key) != "" {
			return key, nil
		}
	}
	return "", errors.New("API key not found (set it in keychain or via env)")
}

func SetAPIKey(keyringAccount string, key string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("API key is empty")
	}
	return keyring.Set(KeyringService, keyringAccount, key)
}

func DeleteAPIKey(keyringAccount string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, keyringAccount)
}

// AdzunaKeyringAccount names the keychain slot for the Adzuna app key,
// scoped by app id so switching credentials never reads a stale key.
func AdzunaKeyringAccount(appID string) string {
	return fmt.Sprintf("jobscout:adzuna:%s", appID)
}
