package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/R3yz0n/beyond-pad/internal/client/models"
	"github.com/R3yz0n/beyond-pad/internal/client/services"
	"github.com/R3yz0n/beyond-pad/internal/common"
)

// getSimpleText and getMultiline are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getMultiline = GetMultiline

// Save prompts for a note body plus the optional collaborator and NFT
// gate addresses, runs the save pipeline, and waits for the relay task
// to settle.
//
// A collaborator share failure is reported as a warning: the note
// itself is already safely registered at that point.
func (a *App) Save(ctx context.Context) error {
	if !a.isConnected() {
		fmt.Println("Not connected.")
		return common.ErrWalletUnavailable
	}

	content, err := getMultiline(a.reader, "- Enter note text", os.Stdout)
	if err != nil {
		return err
	}

	collab, err := getSimpleText(a.reader, "- Collaborator address (empty for none)", os.Stdout)
	if err != nil {
		return err
	}

	gate, err := getSimpleText(a.reader, "- NFT gate contract (empty for none)", os.Stdout)
	if err != nil {
		return err
	}

	var note *models.StoredNote
	saveErr := withSpinner("Encrypting and registering...", func() error {
		n, err := a.notes.Save(ctx, content, services.SaveOptions{Collaborator: collab, NFTGate: gate})
		note = n
		return err
	})
	if saveErr != nil {
		if !errors.Is(saveErr, common.ErrShareFailed) {
			a.log.Error(ctx, "saving note", "err", saveErr)
			return saveErr
		}
		// the note made it; only the collaborator key registration failed
		color.Yellow("warning: note saved but sharing failed: %v", saveErr)
	}

	color.Green("Saved %q (cid %s)", note.Title, note.Cid)

	err = withSpinner("Waiting for confirmation...", func() error {
		settled, err := a.notes.Confirm(ctx, note)
		if err != nil {
			return err
		}
		if settled {
			fmt.Printf("Confirmed in tx %s\n", note.TxRef)
		}
		return nil
	})
	if err != nil {
		color.Yellow("warning: confirmation still pending: %v", err)
	}
	return nil
}
