package organizer

import "io"

// Encryptor protects exported plans at rest. Plans can carry content
// excerpts, so exports support encryption with a locally held key pair.
type Encryptor interface {
	// Setup generates and stores a new key pair, protecting the private
	// key with the passphrase.
	Setup(passphrase string) error

	// Encrypt reads plaintext from r and writes ciphertext to w using the
	// stored public key.
	Encrypt(r io.Reader, w io.Writer) error

	// Decrypt unlocks the private key with the passphrase and decrypts
	// ciphertext from r into w.
	Decrypt(passphrase string, r io.Reader, w io.Writer) error

	// IsConfigured reports whether a key pair exists.
	IsConfigured() bool
}
