// Package wallet provides the signing side of the client: a local
// secp256k1 key wallet with an encrypted keyfile, the connected-session
// object, and address helpers.
package wallet

import (
	"context"
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/accounts"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/R3yz0n/beyond-pad/internal/common"
)

// Signer is the wallet capability the rest of the client consumes:
// an address plus EIP-191 personal-sign.
type Signer interface {
	Address() ethcommon.Address
	PersonalSign(ctx context.Context, msg []byte) ([]byte, error)
}

// KeyWallet signs with an in-memory secp256k1 private key.
type KeyWallet struct {
	priv    *ecdsa.PrivateKey
	address ethcommon.Address
}

func NewKeyWallet(priv *ecdsa.PrivateKey) *KeyWallet {
	return &KeyWallet{priv: priv, address: crypto.PubkeyToAddress(priv.PublicKey)}
}

// GenerateKeyWallet creates a wallet around a fresh random key.
func GenerateKeyWallet() (*KeyWallet, error) {
	priv, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	return NewKeyWallet(priv), nil
}

func (w *KeyWallet) Address() ethcommon.Address {
	return w.address
}

// PersonalSign produces the 65-byte [R || S || V] signature over the
// EIP-191 hash of msg, with V normalized to 27/28 the way interactive
// wallets return it.
func (w *KeyWallet) PersonalSign(ctx context.Context, msg []byte) ([]byte, error) {
	if w == nil || w.priv == nil {
		return nil, common.ErrWalletUnavailable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sig, err := crypto.Sign(accounts.TextHash(msg), w.priv)
	if err != nil {
		return nil, err
	}
	sig[64] += 27
	return sig, nil
}
