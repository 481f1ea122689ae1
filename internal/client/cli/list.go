package cli

import (
	"context"
	"fmt"

	"github.com/R3yz0n/beyond-pad/internal/common"
)

// List prints the loaded notes, most recent first.
func (a *App) List(ctx context.Context) error {
	if !a.isConnected() {
		fmt.Println("Not connected.")
		return common.ErrWalletUnavailable
	}

	notes := a.notes.List()
	if len(notes) == 0 {
		fmt.Println("No notes yet. Use 'save' to create one.")
		return nil
	}

	for _, n := range notes {
		marker := " "
		if n.Shared {
			marker = "*"
		}
		fmt.Printf("%s %s  %s  %s\n", marker, n.Timestamp.Format("2006-01-02 15:04"), n.Cid, n.Title)
	}
	return nil
}

// Show prints a single note's content by cid.
func (a *App) Show(ctx context.Context, cid string) error {
	if !a.isConnected() {
		fmt.Println("Not connected.")
		return common.ErrWalletUnavailable
	}

	n, ok := a.notes.Get(cid)
	if !ok {
		fmt.Printf("No note with cid %s\n", cid)
		return common.ErrNotFound
	}

	fmt.Printf("%s (%s)\n", n.Title, n.Timestamp.Format("2006-01-02 15:04"))
	if n.NFTGate != "" {
		fmt.Printf("gated by %s\n", n.NFTGate)
	}
	if n.Collaborator != "" {
		fmt.Printf("shared with %s\n", n.Collaborator)
	}
	fmt.Println()
	fmt.Println(n.Content)
	return nil
}
