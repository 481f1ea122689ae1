package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/R3yz0n/beyond-pad/internal/client/services"
	"github.com/R3yz0n/beyond-pad/internal/common"
	"github.com/R3yz0n/beyond-pad/internal/wallet"
)

// getPassword is an indirection used to facilitate testing.
var getPassword = GetPassword

// Connect unlocks the keystore, resolves the smart account behind the
// wallet, and runs the initial load pipeline. When no keystore exists
// yet a fresh wallet is generated and stored under the same passphrase.
//
// The passphrase byte slice is securely wiped before returning.
func (a *App) Connect(ctx context.Context) error {
	if a.isConnected() {
		fmt.Println("Already connected.")
		return nil
	}

	passphrase, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(passphrase)

	w, err := wallet.Unlock(a.config.KeystorePath, passphrase)
	if errors.Is(err, common.ErrNotFound) {
		fmt.Println("No keystore found, generating a new wallet...")
		w, err = wallet.CreateKeystore(a.config.KeystorePath, passphrase)
	}
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			color.Red("Wrong passphrase.")
			return err
		}
		a.log.Error(ctx, "unlocking keystore", "err", err)
		return err
	}

	var (
		account  = w.Address()
		deployed bool
	)
	err = withSpinner("Resolving account...", func() error {
		acc, dep, err := a.relay.Account(ctx, w.Address())
		if err != nil {
			return err
		}
		account, deployed = acc, dep
		return nil
	})
	if err != nil {
		a.log.Error(ctx, "resolving account", "err", err)
		return err
	}

	a.session = wallet.NewSession(w, account, deployed)
	a.notes = services.NewNotesService(a.session, a.store, a.reg, a.log)

	color.Green("Connected as %s (account %s)", wallet.Shorten(w.Address()), wallet.Shorten(account))

	return a.Reload(ctx)
}

// Reload runs the load pipeline and prints a summary. Within a session
// a completed load makes this a no-op; it only re-fetches when the
// initial load failed part-way.
func (a *App) Reload(ctx context.Context) error {
	if !a.isConnected() {
		fmt.Println("Not connected.")
		return common.ErrWalletUnavailable
	}

	var res *services.LoadResult
	err := withSpinner("Loading notes...", func() error {
		var err error
		res, err = a.notes.Load(ctx)
		return err
	})
	if err != nil {
		a.log.Error(ctx, "loading notes", "err", err)
		return err
	}

	fmt.Printf("Loaded %d note(s), skipped %d duplicate(s).\n", res.Loaded, res.Skipped)
	for _, f := range res.Failures {
		color.Yellow("warning: note %s could not be read (%s): %v", f.Cid, f.Step, f.Err)
	}
	return nil
}

// Disconnect forgets the in-memory session. The keystore file stays on
// disk, so a later connect only needs the passphrase again.
func (a *App) Disconnect(ctx context.Context) error {
	if a.session != nil {
		a.session.Clear()
	}
	a.session = nil
	a.notes = nil
	fmt.Println("Disconnected.")
	return nil
}
