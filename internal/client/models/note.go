// Package models defines the note records exchanged between the
// pipeline, the storage network and the on-chain registry.
package models

import (
	"fmt"
	"time"
)

// PayloadVersion is the current serialization format of the encrypted
// note payload.
const PayloadVersion = 1

// maxTitleRunes bounds the derived display title.
const maxTitleRunes = 64

// Payload is the plaintext that gets encrypted: the document itself
// plus creation time and a format version, fixed at serialization time.
type Payload struct {
	Version   int    `json:"version"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"createdAt"` // unix milliseconds
}

// NewPayload captures content at the current time.
func NewPayload(content string, now time.Time) Payload {
	return Payload{Version: PayloadVersion, Content: content, CreatedAt: now.UnixMilli()}
}

// Validate rejects payloads from unknown future formats instead of
// rendering them wrongly.
func (p Payload) Validate() error {
	if p.Version != PayloadVersion {
		return fmt.Errorf("unsupported payload version %d", p.Version)
	}
	return nil
}

// Envelope is the blob stored on the content-addressed network. Only
// EncryptedContent is protected; Owner, Timestamp and NFTGate ride
// along in the clear and must not be trusted without cross-checking the
// decrypted payload.
type Envelope struct {
	EncryptedContent string `json:"encryptedContent"`
	Owner            string `json:"owner"`
	Timestamp        int64  `json:"timestamp"`
	NFTGate          string `json:"nftGate,omitempty"`
}

// RecipientRole says which party a wrapped key was issued to.
type RecipientRole string

const (
	RoleOwner        RecipientRole = "owner"
	RoleCollaborator RecipientRole = "collaborator"
)

// WrappedKeyRecord is the on-ledger unit of key distribution: one per
// recipient per note, all wrapping the same underlying content key.
type WrappedKeyRecord struct {
	Cid        string        `json:"cid"`
	Role       RecipientRole `json:"role"`
	Gate       string        `json:"gate,omitempty"`
	WrappedKey string        `json:"wrappedKey"`
}

// StoredNote is the user-visible record of a saved document. It is
// created at the end of a successful save and never mutated in place;
// edits produce a new note with a new identifier.
type StoredNote struct {
	Cid          string    `json:"cid"`
	Title        string    `json:"title"`
	Timestamp    time.Time `json:"timestamp"`
	Owner        string    `json:"owner"` // lower-cased for comparisons
	Collaborator string    `json:"collaborator,omitempty"`
	NFTGate      string    `json:"nftGate,omitempty"`
	TxRef        string    `json:"txRef,omitempty"` // relay task id or settled tx hash
	Shared       bool      `json:"shared"`

	// Content is the decrypted document, held only in memory.
	Content string `json:"-"`
}

// TitleFrom derives the display label: the first line of content,
// truncated. Not authoritative; always recomputed from decrypted
// content.
func TitleFrom(content string) string {
	for i, r := range content {
		if r == '\n' || r == '\r' {
			content = content[:i]
			break
		}
	}
	runes := []rune(content)
	if len(runes) > maxTitleRunes {
		return string(runes[:maxTitleRunes])
	}
	return content
}
