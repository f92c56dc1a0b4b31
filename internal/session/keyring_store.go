package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/eathmover/internal/constants"
	"github.com/julianstephens/eathmover/internal/keyring"
)

// KeyringStore persists the identity as JSON in the OS keyring.
type KeyringStore struct{}

func NewKeyringStore() *KeyringStore {
	return &KeyringStore{}
}

func (KeyringStore) Save(id Identity) error {
	data, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return keyring.Set(constants.SessionKeyringUser, string(data))
}

func (KeyringStore) Load() (Identity, error) {
	raw, err := keyring.Get(constants.SessionKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return Identity{}, ErrNoSession
		}
		return Identity{}, err
	}
	var id Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return Identity{}, fmt.Errorf("failed to decode stored session: %w", err)
	}
	return id, nil
}

func (KeyringStore) Delete() error {
	if err := keyring.Delete(constants.SessionKeyringUser); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNoSession
		}
		return err
	}
	return nil
}
