// Package services contains the note pipeline orchestrator: the save
// and load flows composing the cipher, the wallet-derived key, the
// storage network and the on-chain registry. It also owns the
// in-memory list of known notes.
package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/R3yz0n/beyond-pad/internal/client/models"
	"github.com/R3yz0n/beyond-pad/internal/common"
	"github.com/R3yz0n/beyond-pad/internal/cryptox"
	"github.com/R3yz0n/beyond-pad/internal/logging"
	"github.com/R3yz0n/beyond-pad/internal/registry"
	"github.com/R3yz0n/beyond-pad/internal/storage"
	"github.com/R3yz0n/beyond-pad/internal/wallet"
)

// SaveOptions carries the optional parts of a save: a collaborator who
// gets a second wrapped key, and an asset contract intended to gate
// access. Both are hex addresses when present.
type SaveOptions struct {
	Collaborator string
	NFTGate      string
}

// RecordFailure describes one registry record that could not be loaded.
type RecordFailure struct {
	Cid  string
	Step string // fetch | derive | unwrap | decrypt | parse
	Err  error
}

func (f RecordFailure) Error() string {
	return fmt.Sprintf("record %s: %s: %v", f.Cid, f.Step, f.Err)
}

// LoadResult summarizes one load pass. Failures are per-record; a
// failing record never aborts the rest.
type LoadResult struct {
	Loaded   int
	Skipped  int
	Failures []RecordFailure
}

// TaskWaiter is implemented by registry clients that can poll an
// asynchronous relay task to settlement.
type TaskWaiter interface {
	WaitConfirmed(ctx context.Context, taskID string) (string, bool, error)
}

// NotesService runs the save and load pipelines for one wallet session.
type NotesService struct {
	session *wallet.Session
	store   storage.Client
	reg     registry.Client
	log     logging.Logger
	now     func() time.Time

	mu     sync.Mutex
	notes  []models.StoredNote
	seen   map[string]struct{}
	loaded bool
}

func NewNotesService(session *wallet.Session, store storage.Client, reg registry.Client, log logging.Logger) *NotesService {
	return &NotesService{
		session: session,
		store:   store,
		reg:     reg,
		log:     log,
		now:     time.Now,
		seen:    make(map[string]struct{}),
	}
}

// Save runs the full pipeline: validate, serialize, encrypt under a
// fresh content key, upload, wrap the key for the owner and register
// it, then optionally wrap the same key for a collaborator.
//
// A collaborator-step failure is isolated: the note is still saved and
// returned, together with an error wrapping ErrShareFailed. Any earlier
// failure returns a nil note.
func (s *NotesService) Save(ctx context.Context, content string, opts SaveOptions) (*models.StoredNote, error) {
	if !s.session.Connected() {
		return nil, common.ErrWalletUnavailable
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: empty note", common.ErrInvalidInput)
	}

	// all address validation happens before any network call
	collab, err := optionalAddress(opts.Collaborator)
	if err != nil {
		return nil, err
	}
	gate, err := optionalAddress(opts.NFTGate)
	if err != nil {
		return nil, err
	}

	owner := s.session.Owner()
	now := s.now()

	contentKey := cryptox.NewRandomKey()
	defer common.WipeByteArray(contentKey)
	encrypted, err := cryptox.EncryptJSON(models.NewPayload(content, now), contentKey)
	if err != nil {
		return nil, fmt.Errorf("encrypting note: %w", err)
	}

	env := models.Envelope{
		EncryptedContent: encrypted,
		Owner:            wallet.Lower(owner),
		Timestamp:        now.UnixMilli(),
	}
	if gate != nil {
		env.NFTGate = wallet.Lower(*gate)
	}

	cid, err := s.store.Put(ctx, env)
	if err != nil {
		return nil, err
	}
	log := s.log.With("cid", cid)

	ownerKey, err := cryptox.DeriveNoteKey(ctx, s.session.Signer(), owner, cid)
	if err != nil {
		return nil, err
	}
	wrappedOwner, err := cryptox.WrapKey(contentKey, ownerKey)
	if err != nil {
		return nil, err
	}

	gateAddr := registry.NoGate
	if gate != nil {
		gateAddr = *gate
	}
	ref, err := s.reg.AddNote(ctx, cid, gateAddr, wrappedOwner)
	if err != nil {
		return nil, err
	}
	log.Info(ctx, "note registered", "ref", ref)

	note := models.StoredNote{
		Cid:       cid,
		Title:     models.TitleFrom(content),
		Timestamp: now,
		Owner:     wallet.Lower(owner),
		TxRef:     ref,
		Shared:    collab != nil,
		Content:   content,
	}
	if gate != nil {
		note.NFTGate = wallet.Lower(*gate)
	}

	// collaborator step is isolated: the note above is already
	// committed and must not be rolled back
	var shareErr error
	if collab != nil {
		note.Collaborator = wallet.Lower(*collab)
		if err := s.shareWith(ctx, cid, *collab, contentKey, gateAddr); err != nil {
			log.Warn(ctx, "collaborator key not registered", "collaborator", note.Collaborator, "err", err)
			shareErr = fmt.Errorf("%w: %v", common.ErrShareFailed, err)
		}
	}

	s.remember(note)
	return &note, shareErr
}

// shareWith wraps the same content key for the collaborator and
// registers it. The key message embeds the collaborator's address but
// is signed by the connected wallet; real collaborator key exchange is
// a placeholder capability (the collaborator cannot reproduce this
// signature).
func (s *NotesService) shareWith(ctx context.Context, cid string, collab ethcommon.Address, contentKey []byte, gate ethcommon.Address) error {
	collabKey, err := cryptox.DeriveNoteKey(ctx, s.session.Signer(), collab, cid)
	if err != nil {
		return err
	}
	wrapped, err := cryptox.WrapKey(contentKey, collabKey)
	if err != nil {
		return err
	}
	_, err = s.reg.AddCollaborator(ctx, cid, collab, wrapped)
	return err
}

// Load queries the registry for the session's notes and decrypts each
// one. Records are processed sequentially and independently; a one-shot
// latch makes repeated calls within a session no-ops.
func (s *NotesService) Load(ctx context.Context) (*LoadResult, error) {
	if !s.session.Connected() {
		return nil, common.ErrWalletUnavailable
	}

	s.mu.Lock()
	if s.loaded {
		s.mu.Unlock()
		return &LoadResult{}, nil
	}
	s.mu.Unlock()

	// notes are registered under the smart-account address
	records, err := s.reg.ListNotes(ctx, s.session.Account())
	if err != nil {
		return nil, err
	}

	res := &LoadResult{}
	var fresh []models.StoredNote
	for _, rec := range records {
		if s.known(rec.Cid) {
			res.Skipped++
			continue
		}
		note, fail := s.loadRecord(ctx, rec)
		if fail != nil {
			s.log.Warn(ctx, "skipping record", "cid", fail.Cid, "step", fail.Step, "err", fail.Err)
			res.Failures = append(res.Failures, *fail)
			continue
		}
		fresh = append(fresh, *note)
	}

	sort.SliceStable(fresh, func(i, j int) bool {
		return fresh[i].Timestamp.After(fresh[j].Timestamp)
	})
	// prepend oldest first so the newest record ends up at the front
	for i := len(fresh) - 1; i >= 0; i-- {
		if s.remember(fresh[i]) {
			res.Loaded++
		} else {
			res.Skipped++
		}
	}

	s.mu.Lock()
	s.loaded = true
	s.mu.Unlock()

	s.log.Info(ctx, "load complete", "loaded", res.Loaded, "skipped", res.Skipped, "failed", len(res.Failures))
	return res, nil
}

// loadRecord runs the per-record read pipeline. Keys are derived from
// the raw signing address even though the record is registered under
// the smart-account address.
func (s *NotesService) loadRecord(ctx context.Context, rec registry.Record) (*models.StoredNote, *RecordFailure) {
	fail := func(step string, err error) (*models.StoredNote, *RecordFailure) {
		return nil, &RecordFailure{Cid: rec.Cid, Step: step, Err: err}
	}

	var env models.Envelope
	if err := s.store.Get(ctx, rec.Cid, &env); err != nil {
		return fail("fetch", err)
	}

	walletKey, err := cryptox.DeriveNoteKey(ctx, s.session.Signer(), s.session.Owner(), rec.Cid)
	if err != nil {
		return fail("derive", err)
	}

	contentKey, err := cryptox.UnwrapKey(rec.EncKeyOwner, walletKey)
	if err != nil {
		return fail("unwrap", err)
	}

	var payload models.Payload
	if err := cryptox.DecryptJSON(env.EncryptedContent, contentKey, &payload); err != nil {
		return fail("decrypt", err)
	}
	if err := payload.Validate(); err != nil {
		return fail("parse", err)
	}

	note := models.StoredNote{
		Cid:       rec.Cid,
		Title:     models.TitleFrom(payload.Content),
		Timestamp: time.UnixMilli(payload.CreatedAt),
		Owner:     wallet.Lower(rec.Owner),
		Content:   payload.Content,
	}
	if rec.NftGate != registry.NoGate {
		note.NFTGate = wallet.Lower(rec.NftGate)
	}
	return &note, nil
}

// Confirm polls the asynchronous relay task behind a freshly saved
// note, bounded by the relay's attempt budget. Returns true when the
// submission settled; TxRef is upgraded from task handle to tx hash.
func (s *NotesService) Confirm(ctx context.Context, note *models.StoredNote) (bool, error) {
	waiter, ok := s.reg.(TaskWaiter)
	if !ok || note == nil || note.TxRef == "" || strings.HasPrefix(note.TxRef, "0x") {
		return false, nil
	}

	tx, settled, err := waiter.WaitConfirmed(ctx, note.TxRef)
	if err != nil {
		return false, err
	}
	if settled && tx != "" {
		note.TxRef = tx
		s.setTxRef(note.Cid, tx)
		s.session.SetDeployed(true)
	}
	return settled, nil
}

// List returns a snapshot of the local notes, most recent first.
func (s *NotesService) List() []models.StoredNote {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.StoredNote, len(s.notes))
	copy(out, s.notes)
	return out
}

// Get returns the note with the given cid, if known.
func (s *NotesService) Get(cid string) (models.StoredNote, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notes {
		if n.Cid == cid {
			return n, true
		}
	}
	return models.StoredNote{}, false
}

func (s *NotesService) known(cid string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[cid]
	return ok
}

// remember prepends the note unless its cid is already known.
func (s *NotesService) remember(n models.StoredNote) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[n.Cid]; ok {
		return false
	}
	s.seen[n.Cid] = struct{}{}
	s.notes = append([]models.StoredNote{n}, s.notes...)
	return true
}

func (s *NotesService) setTxRef(cid, ref string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notes {
		if s.notes[i].Cid == cid {
			s.notes[i].TxRef = ref
			return
		}
	}
}

func optionalAddress(s string) (*ethcommon.Address, error) {
	if s == "" {
		return nil, nil
	}
	addr, err := wallet.ParseAddress(s)
	if err != nil {
		return nil, err
	}
	return &addr, nil
}
