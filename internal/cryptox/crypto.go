// Package cryptox holds the client-side cryptography of sealbox: AES-GCM
// encryption of file content under a random per-file key, and wrapping of
// that key to a principal's age X25519 public key.
//
// Nothing in this package is used by the server.
package cryptox

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
	"io"
	"strings"

	"filippo.io/age"
	"filippo.io/age/armor"
	"github.com/dmitrijs2005/sealbox/internal/common"
)

var ErrCiphertextTooShort = errors.New("ciphertext too short")

// scryptWorkFactor is the age scrypt cost used to protect identity files.
var scryptWorkFactor = 18

// NewFileKey returns a fresh random file key.
func NewFileKey() []byte {
	return common.GenerateRandByteArray(common.FileKeySize)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// EncryptFile encrypts plaintext with AES-GCM under key. The random nonce is
// prepended to the returned ciphertext.
func EncryptFile(plaintext, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := common.GenerateRandByteArray(aesgcm.NonceSize())

	return aesgcm.Seal(nonce, nonce, plaintext, nil), nil
}

// DecryptFile reverses EncryptFile.
func DecryptFile(blob, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(blob) < aesgcm.NonceSize() {
		return nil, ErrCiphertextTooShort
	}
	nonce, ciphertext := blob[:aesgcm.NonceSize()], blob[aesgcm.NonceSize():]

	return aesgcm.Open(nil, nonce, ciphertext, nil)
}

// GenerateIdentity creates a new X25519 key pair. The recipient string of
// the identity is the public key registered with the server.
func GenerateIdentity() (*age.X25519Identity, error) {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("generating key pair: %w", err)
	}
	return identity, nil
}

// WrapKey encrypts fileKey to publicKey and returns it as ASCII armor.
func WrapKey(fileKey []byte, publicKey string) (string, error) {
	recipient, err := age.ParseX25519Recipient(strings.TrimSpace(publicKey))
	if err != nil {
		return "", fmt.Errorf("parsing public key: %w", err)
	}

	var buf bytes.Buffer
	aw := armor.NewWriter(&buf)

	w, err := age.Encrypt(aw, recipient)
	if err != nil {
		return "", fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := w.Write(fileKey); err != nil {
		return "", fmt.Errorf("wrapping key: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalizing wrapped key: %w", err)
	}
	if err := aw.Close(); err != nil {
		return "", fmt.Errorf("finalizing armor: %w", err)
	}

	return buf.String(), nil
}

// UnwrapKey recovers a file key wrapped by WrapKey for identity.
func UnwrapKey(wrapped string, identity age.Identity) ([]byte, error) {
	r, err := age.Decrypt(armor.NewReader(strings.NewReader(wrapped)), identity)
	if err != nil {
		return nil, fmt.Errorf("unwrapping key: %w", err)
	}

	key, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading unwrapped key: %w", err)
	}
	if len(key) != common.FileKeySize {
		common.WipeByteArray(key)
		return nil, fmt.Errorf("unwrapped key has %d bytes", len(key))
	}

	return key, nil
}

// RewrapKey unwraps a key held by identity and wraps it again for
// publicKey. The plaintext key is wiped before returning.
func RewrapKey(wrapped string, identity age.Identity, publicKey string) (string, error) {
	key, err := UnwrapKey(wrapped, identity)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(key)

	return WrapKey(key, publicKey)
}

// SealIdentity encrypts the identity with a passphrase for storage on disk.
func SealIdentity(identity *age.X25519Identity, passphrase string) ([]byte, error) {
	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt recipient: %w", err)
	}
	recipient.SetWorkFactor(scryptWorkFactor)

	var buf bytes.Buffer
	aw := armor.NewWriter(&buf)

	w, err := age.Encrypt(aw, recipient)
	if err != nil {
		return nil, fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := io.WriteString(w, identity.String()+"\n"); err != nil {
		return nil, fmt.Errorf("writing encrypted private key: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing encrypted private key: %w", err)
	}
	if err := aw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing armor: %w", err)
	}

	return buf.Bytes(), nil
}

// OpenIdentity decrypts an identity sealed by SealIdentity.
func OpenIdentity(data []byte, passphrase string) (*age.X25519Identity, error) {
	scrypt, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w", err)
	}

	r, err := age.Decrypt(armor.NewReader(bytes.NewReader(data)), scrypt)
	if err != nil {
		return nil, fmt.Errorf("decrypting private key: %w", err)
	}

	keyData, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading decrypted private key: %w", err)
	}

	identity, err := age.ParseX25519Identity(strings.TrimSpace(string(keyData)))
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}

	return identity, nil
}
