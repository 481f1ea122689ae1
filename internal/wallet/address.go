package wallet

import (
	"fmt"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/R3yz0n/beyond-pad/internal/common"
)

// ParseAddress validates s as a well-formed 20-byte hex address.
// Malformed input fails with ErrInvalidInput so callers can reject it
// before any network call.
func ParseAddress(s string) (ethcommon.Address, error) {
	if !ethcommon.IsHexAddress(s) {
		return ethcommon.Address{}, fmt.Errorf("%w: %q is not a valid address", common.ErrInvalidInput, s)
	}
	return ethcommon.HexToAddress(s), nil
}

// Shorten renders an address in the usual 0x1234...abcd display form.
func Shorten(addr ethcommon.Address) string {
	h := addr.Hex()
	return h[:6] + "..." + h[len(h)-4:]
}

// Lower returns the canonical lower-cased hex form used for comparison
// and for embedding in derivation messages.
func Lower(addr ethcommon.Address) string {
	return strings.ToLower(addr.Hex())
}
