package encryption

import (
	"bytes"
	"fmt"
	"io"

	"github.com/black-lotus-01/data-organizer/internal/organizer"
)

// testPrefix marks data "encrypted" by the TestEncryptor.
var testPrefix = []byte("TESTENC:")

// TestEncryptor is a trivially reversible encryptor for tests. It only
// prefixes the payload so round-trips are observable without real keys.
type TestEncryptor struct {
	configured bool
}

var _ organizer.Encryptor = (*TestEncryptor)(nil)

// NewTestEncryptor creates a TestEncryptor that reports as configured.
func NewTestEncryptor() *TestEncryptor {
	return &TestEncryptor{configured: true}
}

func (e *TestEncryptor) Setup(string) error {
	e.configured = true
	return nil
}

func (e *TestEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := w.Write(testPrefix); err != nil {
		return err
	}
	_, err := io.Copy(w, r)
	return err
}

func (e *TestEncryptor) Decrypt(_ string, r io.Reader, w io.Writer) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if !bytes.HasPrefix(data, testPrefix) {
		return fmt.Errorf("data was not encrypted by the test encryptor")
	}
	_, err = w.Write(bytes.TrimPrefix(data, testPrefix))
	return err
}

func (e *TestEncryptor) IsConfigured() bool { return e.configured }
