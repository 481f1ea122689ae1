package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/scrypt"

	"github.com/R3yz0n/beyond-pad/internal/common"
	"github.com/R3yz0n/beyond-pad/internal/cryptox"
)

// scrypt parameters for the keyfile KDF.
const (
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
	saltLen = 16
)

const keyFileVersion = 1

// keyFile is the on-disk form of an encrypted wallet key.
type keyFile struct {
	Version    int    `json:"version"`
	Address    string `json:"address"`
	Salt       string `json:"salt"`
	CipherText string `json:"cipherText"`
}

// CreateKeystore generates a fresh wallet key, encrypts it under the
// passphrase and writes it to path (mode 0600). The unlocked wallet is
// returned so the caller can connect right away.
func CreateKeystore(path string, passphrase []byte) (*KeyWallet, error) {
	w, err := GenerateKeyWallet()
	if err != nil {
		return nil, err
	}

	salt := common.GenerateRandByteArray(saltLen)
	key, err := scrypt.Key(passphrase, salt, scryptN, scryptR, scryptP, cryptox.KeySize)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	ct, err := cryptox.Encrypt(crypto.FromECDSA(w.priv), key)
	if err != nil {
		return nil, err
	}

	kf := keyFile{
		Version:    keyFileVersion,
		Address:    strings.ToLower(w.address.Hex()),
		Salt:       fmt.Sprintf("%x", salt),
		CipherText: ct,
	}
	data, err := json.MarshalIndent(kf, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return nil, fmt.Errorf("writing keystore: %w", err)
	}
	return w, nil
}

// Unlock reads the keyfile at path and decrypts the wallet key with the
// passphrase. A wrong passphrase surfaces as common.ErrUnauthorized.
func Unlock(path string, passphrase []byte) (*KeyWallet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: keystore %s", common.ErrNotFound, path)
		}
		return nil, err
	}

	var kf keyFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parsing keystore: %w", err)
	}
	if kf.Version != keyFileVersion {
		return nil, fmt.Errorf("unsupported keystore version %d", kf.Version)
	}

	var salt []byte
	if _, err := fmt.Sscanf(kf.Salt, "%x", &salt); err != nil {
		return nil, fmt.Errorf("parsing keystore salt: %w", err)
	}

	key, err := scrypt.Key(passphrase, salt, scryptN, scryptR, scryptP, cryptox.KeySize)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	privBytes, err := cryptox.Decrypt(kf.CipherText, key)
	if err != nil {
		if errors.Is(err, common.ErrDecryptionFailed) {
			return nil, fmt.Errorf("%w: wrong passphrase", common.ErrUnauthorized)
		}
		return nil, err
	}
	defer common.WipeByteArray(privBytes)

	priv, err := crypto.ToECDSA(privBytes)
	if err != nil {
		return nil, fmt.Errorf("parsing wallet key: %w", err)
	}

	w := NewKeyWallet(priv)
	if !strings.EqualFold(w.address.Hex(), kf.Address) {
		return nil, fmt.Errorf("keystore address mismatch: file says %s", kf.Address)
	}
	return w, nil
}
