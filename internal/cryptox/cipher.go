// Package cryptox implements the client-side encryption primitives:
// the AES-256-GCM cipher wrapper used for note content and key wrapping,
// and the deterministic wallet-derived key.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/R3yz0n/beyond-pad/internal/common"
)

// KeySize is the content- and wrapping-key length in bytes (AES-256).
const KeySize = 32

// NewRandomKey returns a fresh random 256-bit key.
func NewRandomKey() []byte {
	return common.GenerateRandByteArray(KeySize)
}

// Encrypt seals plaintext with AES-256-GCM under key and returns the
// result as a base64 string of nonce||ciphertext. A new random 12-byte
// nonce is generated per call.
func Encrypt(plaintext, key []byte) (string, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := common.GenerateRandByteArray(aesgcm.NonceSize())
	sealed := aesgcm.Seal(nonce, nonce, plaintext, nil)

	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. A wrong key, malformed encoding or tampered
// ciphertext surfaces as common.ErrDecryptionFailed; the GCM tag check
// guarantees garbage plaintext is never returned silently.
func Decrypt(encoded string, key []byte) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: bad encoding", common.ErrDecryptionFailed)
	}

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(raw) < aesgcm.NonceSize() {
		return nil, fmt.Errorf("%w: ciphertext too short", common.ErrDecryptionFailed)
	}
	nonce, ciphertext := raw[:aesgcm.NonceSize()], raw[aesgcm.NonceSize():]

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, common.ErrDecryptionFailed
	}
	return plaintext, nil
}

// EncryptJSON serializes v to JSON and encrypts it.
func EncryptJSON(v any, key []byte) (string, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return Encrypt(plaintext, key)
}

// DecryptJSON decrypts encoded and unmarshals the plaintext into v.
func DecryptJSON(encoded string, key []byte, v any) error {
	plaintext, err := Decrypt(encoded, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(plaintext, v)
}

// WrapKey encrypts a content key under a recipient's wallet-derived key.
func WrapKey(contentKey, wrappingKey []byte) (string, error) {
	return Encrypt(contentKey, wrappingKey)
}

// UnwrapKey reverses WrapKey. Unwrapping with the wrong wallet key fails
// with common.ErrDecryptionFailed rather than yielding a wrong key.
func UnwrapKey(wrapped string, wrappingKey []byte) ([]byte, error) {
	key, err := Decrypt(wrapped, wrappingKey)
	if err != nil {
		return nil, err
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: unexpected key length %d", common.ErrDecryptionFailed, len(key))
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
