package cryptox

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/R3yz0n/beyond-pad/internal/common"
)

// MessageSigner is the narrow signing capability the deriver needs.
// The concrete implementation lives in the wallet package; tests supply
// a deterministic fake.
type MessageSigner interface {
	// PersonalSign signs msg in EIP-191 personal-sign form and returns
	// the 65-byte [R || S || V] signature.
	PersonalSign(ctx context.Context, msg []byte) ([]byte, error)
}

// KeyMessage is the fixed-format message whose signature seeds the
// wallet-derived key for one (address, cid) pair. The address is
// lower-cased so checksummed and plain forms derive the same key.
// Changing this format invalidates every previously derived key, hence
// the explicit version line.
func KeyMessage(address ethcommon.Address, cid string) []byte {
	msg := fmt.Sprintf("BeyondPad encryption key\naddress: %s\ncid: %s\nversion: 1",
		strings.ToLower(address.Hex()), cid)
	return []byte(msg)
}

// DeriveNoteKey produces the deterministic symmetric key for (address,
// cid): personal-sign the key message, then hash the signature down to a
// fixed-length key. Only the holder of the address's private key can
// reproduce it. The result is not cached; every call triggers a signing
// prompt on interactive wallets.
func DeriveNoteKey(ctx context.Context, signer MessageSigner, address ethcommon.Address, cid string) ([]byte, error) {
	if signer == nil {
		return nil, common.ErrWalletUnavailable
	}

	sig, err := signer.PersonalSign(ctx, KeyMessage(address, cid))
	if err != nil {
		return nil, fmt.Errorf("deriving key for %s: %w", cid, err)
	}

	sum := sha256.Sum256(sig)
	return sum[:], nil
}
