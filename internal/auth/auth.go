// Package auth verifies the single operator password against the hash
// persisted in the env-style credential file.
package auth

import (
	"errors"
	"fmt"

	"homedash/dashd/internal/auth/hash"
)

// EnvKeyPasswordHash is where the credential record lives in the env file.
const EnvKeyPasswordHash = "PASSWORD_HASH"

var ErrBadCredentials = errors.New("current password is incorrect")

// CredentialStore is the slice of the data store the authenticator
// needs: the env-file key-value record.
type CredentialStore interface {
	ReadEnv() (map[string]string, error)
	UpdateEnv(updates map[string]string) (map[string]string, error)
}

type Authenticator struct {
	creds           CredentialStore
	defaultPassword string
}

func New(creds CredentialStore, defaultPassword string) *Authenticator {
	return &Authenticator{creds: creds, defaultPassword: defaultPassword}
}

// Login checks password against the stored hash. On the very first
// login ever there is no stored hash; the hash of the configured
// default password is seeded and the attempt succeeds only if password
// equals that default. Storage errors fail closed.
func (a *Authenticator) Login(password string) (bool, error) {
	env, err := a.creds.ReadEnv()
	if err != nil {
		return false, fmt.Errorf("read credentials: %w", err)
	}
	stored := env[EnvKeyPasswordHash]
	if stored == "" {
		seeded, err := hash.Password(a.defaultPassword)
		if err != nil {
			return false, err
		}
		if _, err := a.creds.UpdateEnv(map[string]string{EnvKeyPasswordHash: seeded}); err != nil {
			return false, fmt.Errorf("seed credentials: %w", err)
		}
		stored = seeded
	}
	return hash.Verify(stored, password), nil
}

// ChangePassword swaps the stored hash after checking the current
// password. The caller validates next's length policy; the swap itself
// is atomic through the env store's merge write.
func (a *Authenticator) ChangePassword(current, next string) error {
	env, err := a.creds.ReadEnv()
	if err != nil {
		return fmt.Errorf("read credentials: %w", err)
	}
	stored := env[EnvKeyPasswordHash]
	if stored == "" || !hash.Verify(stored, current) {
		return ErrBadCredentials
	}
	phc, err := hash.Password(next)
	if err != nil {
		return err
	}
	if _, err := a.creds.UpdateEnv(map[string]string{EnvKeyPasswordHash: phc}); err != nil {
		return fmt.Errorf("store credentials: %w", err)
	}
	return nil
}
