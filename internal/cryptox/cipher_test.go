package cryptox

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/R3yz0n/beyond-pad/internal/common"
)

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := NewRandomKey()
	plaintext := []byte("Hello\nWorld")

	ct, err := Encrypt(plaintext, key)
	require.NoError(t, err)
	assert.NotEqual(t, string(plaintext), ct)

	got, err := Decrypt(ct, key)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestEncrypt_NonceIsFresh(t *testing.T) {
	key := NewRandomKey()
	a, err := Encrypt([]byte("same"), key)
	require.NoError(t, err)
	b, err := Encrypt([]byte("same"), key)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecrypt_WrongKey(t *testing.T) {
	ct, err := Encrypt([]byte("secret"), NewRandomKey())
	require.NoError(t, err)

	_, err = Decrypt(ct, NewRandomKey())
	assert.ErrorIs(t, err, common.ErrDecryptionFailed)
}

func TestDecrypt_Tampered(t *testing.T) {
	key := NewRandomKey()
	ct, err := Encrypt([]byte("secret"), key)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(ct)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	tampered := base64.StdEncoding.EncodeToString(raw)

	_, err = Decrypt(tampered, key)
	assert.ErrorIs(t, err, common.ErrDecryptionFailed)
}

func TestDecrypt_Malformed(t *testing.T) {
	key := NewRandomKey()

	_, err := Decrypt("not base64!!!", key)
	assert.ErrorIs(t, err, common.ErrDecryptionFailed)

	_, err = Decrypt(base64.StdEncoding.EncodeToString([]byte("xy")), key)
	assert.ErrorIs(t, err, common.ErrDecryptionFailed)
}

func TestWrapUnwrapKey(t *testing.T) {
	contentKey := NewRandomKey()
	ownerKey := NewRandomKey()
	otherKey := NewRandomKey()

	wrapped, err := WrapKey(contentKey, ownerKey)
	require.NoError(t, err)

	got, err := UnwrapKey(wrapped, ownerKey)
	require.NoError(t, err)
	assert.Equal(t, contentKey, got)

	_, err = UnwrapKey(wrapped, otherKey)
	assert.ErrorIs(t, err, common.ErrDecryptionFailed)
}

func TestUnwrapKey_WrongLength(t *testing.T) {
	wrappingKey := NewRandomKey()
	wrapped, err := Encrypt([]byte("short"), wrappingKey)
	require.NoError(t, err)

	_, err = UnwrapKey(wrapped, wrappingKey)
	assert.ErrorIs(t, err, common.ErrDecryptionFailed)
}

func TestEncryptDecryptJSON(t *testing.T) {
	type payload struct {
		Version int    `json:"version"`
		Content string `json:"content"`
	}
	key := NewRandomKey()

	ct, err := EncryptJSON(payload{Version: 1, Content: "hi"}, key)
	require.NoError(t, err)

	var got payload
	require.NoError(t, DecryptJSON(ct, key, &got))
	assert.Equal(t, payload{Version: 1, Content: "hi"}, got)
}
