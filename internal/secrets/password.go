package secrets

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// Service groups the app's secrets in the OS keychain.
	KeyringService = "esbd"
)

// GetSinkKey reads the sink API key stored under account.
func GetSinkKey(account string) (string, error) {
	if strings.TrimSpace(account) != "" {
		key, err := keyring.Get(KeyringService, account)
		if err == nil && strings.TrimSpace(key) != "" {
			return key, nil
		}
	}

	return "", errors.New("sink key not found (set it in keychain or pass --supabase-key)")
}

func SetSinkKey(account string, key string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("key is empty")
	}
	return keyring.Set(KeyringService, account, key)
}

func DeleteSinkKey(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, account)
}
