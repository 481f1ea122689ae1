package cli

import (
	"context"
	"fmt"

	"github.com/R3yz0n/beyond-pad/internal/wallet"
)

// Status prints the wallet and session details.
func (a *App) Status(ctx context.Context) error {
	if !a.isConnected() {
		fmt.Println("Not connected.")
		return nil
	}

	fmt.Printf("wallet:   %s\n", wallet.Lower(a.session.Owner()))
	fmt.Printf("account:  %s\n", wallet.Lower(a.session.Account()))
	if a.session.Deployed() {
		fmt.Println("deployed: yes")
	} else {
		fmt.Println("deployed: no (deploys with the first note)")
	}
	fmt.Printf("network:  chain %d via %s\n", a.config.ChainID, a.config.RPCEndpoint)
	fmt.Printf("storage:  %s\n", a.config.StorageBackend)
	fmt.Printf("notes:    %d loaded\n", len(a.notes.List()))
	return nil
}
