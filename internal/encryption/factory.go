package encryption

import (
	"fmt"

	"github.com/black-lotus-01/data-organizer/internal/config"
	"github.com/black-lotus-01/data-organizer/internal/organizer"
)

// NewEncryptorFromConfig creates an Encryptor based on the config type.
// An empty type defaults to age.
func NewEncryptorFromConfig(cfg config.EncryptionConfig) (organizer.Encryptor, error) {
	switch cfg.Type {
	case "", "age":
		return NewAgeEncryptor(cfg), nil
	case "test":
		return NewTestEncryptor(), nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %s", cfg.Type)
	}
}
