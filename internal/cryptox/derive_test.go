package cryptox

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/R3yz0n/beyond-pad/internal/common"
)

// fakeSigner produces deterministic per-identity signatures without a
// real key: HMAC(identity, msg). Distinct identities sign differently,
// the same identity always signs the same way, which is exactly the
// contract personal-sign gives us.
type fakeSigner struct {
	identity []byte
	err      error
}

func (f *fakeSigner) PersonalSign(_ context.Context, msg []byte) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	mac := hmac.New(sha256.New, f.identity)
	mac.Write(msg)
	return mac.Sum(nil), nil
}

var (
	addrA = ethcommon.HexToAddress("0x1111111111111111111111111111111111111111")
	addrB = ethcommon.HexToAddress("0x2222222222222222222222222222222222222222")
)

func TestDeriveNoteKey_Deterministic(t *testing.T) {
	signer := &fakeSigner{identity: []byte("alice")}
	ctx := context.Background()

	k1, err := DeriveNoteKey(ctx, signer, addrA, "QmFoo")
	require.NoError(t, err)
	k2, err := DeriveNoteKey(ctx, signer, addrA, "QmFoo")
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
	assert.Len(t, k1, KeySize)
}

func TestDeriveNoteKey_DifferentInputsDiverge(t *testing.T) {
	ctx := context.Background()
	alice := &fakeSigner{identity: []byte("alice")}
	bob := &fakeSigner{identity: []byte("bob")}

	base, err := DeriveNoteKey(ctx, alice, addrA, "QmFoo")
	require.NoError(t, err)

	otherCid, err := DeriveNoteKey(ctx, alice, addrA, "QmBar")
	require.NoError(t, err)
	assert.NotEqual(t, base, otherCid)

	otherSigner, err := DeriveNoteKey(ctx, bob, addrB, "QmFoo")
	require.NoError(t, err)
	assert.NotEqual(t, base, otherSigner)
}

func TestDeriveNoteKey_NoSigner(t *testing.T) {
	_, err := DeriveNoteKey(context.Background(), nil, addrA, "QmFoo")
	assert.ErrorIs(t, err, common.ErrWalletUnavailable)
}

func TestDeriveNoteKey_SignerError(t *testing.T) {
	signer := &fakeSigner{err: common.ErrSigningRejected}
	_, err := DeriveNoteKey(context.Background(), signer, addrA, "QmFoo")
	assert.ErrorIs(t, err, common.ErrSigningRejected)
}

func TestKeyMessage_LowercasesAddress(t *testing.T) {
	mixed := ethcommon.HexToAddress("0xAbCdEf0123456789aBcDeF0123456789abcdef01")
	msg := string(KeyMessage(mixed, "QmFoo"))

	assert.Contains(t, msg, "0xabcdef0123456789abcdef0123456789abcdef01")
	assert.Contains(t, msg, "cid: QmFoo")
	assert.Contains(t, msg, "version: 1")
}

func TestDeriveNoteKey_ErrIsNotWrappedAway(t *testing.T) {
	wrapped := errors.New("wallet popup dismissed")
	signer := &fakeSigner{err: wrapped}
	_, err := DeriveNoteKey(context.Background(), signer, addrA, "QmFoo")
	assert.ErrorIs(t, err, wrapped)
}
