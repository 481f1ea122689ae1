package wallet

import ethcommon "github.com/ethereum/go-ethereum/common"

// Session models one connected wallet: the signing (owner) key, the
// registry-facing smart-account address, and whether the account
// contract is already deployed. Notes are registered under the account
// address, while keys are derived from signatures of the owner key.
// A session is created on connect and cleared on disconnect; it is
// never reused across connects.
type Session struct {
	signer   Signer
	account  ethcommon.Address
	deployed bool
}

func NewSession(signer Signer, account ethcommon.Address, deployed bool) *Session {
	return &Session{signer: signer, account: account, deployed: deployed}
}

// Signer returns the signing capability, or nil after Clear.
func (s *Session) Signer() Signer {
	if s == nil {
		return nil
	}
	return s.signer
}

// Owner is the raw signing address.
func (s *Session) Owner() ethcommon.Address {
	if s == nil || s.signer == nil {
		return ethcommon.Address{}
	}
	return s.signer.Address()
}

// Account is the smart-contract-wallet address the registry sees.
func (s *Session) Account() ethcommon.Address {
	if s == nil {
		return ethcommon.Address{}
	}
	return s.account
}

func (s *Session) Deployed() bool {
	return s != nil && s.deployed
}

func (s *Session) SetDeployed(v bool) {
	if s != nil {
		s.deployed = v
	}
}

// Connected reports whether a signer is attached.
func (s *Session) Connected() bool {
	return s != nil && s.signer != nil
}

// Clear detaches the signer; subsequent signing attempts fail with
// ErrWalletUnavailable through the nil-signer path.
func (s *Session) Clear() {
	if s != nil {
		s.signer = nil
	}
}
