package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/R3yz0n/beyond-pad/internal/wallet"
)

func (a *App) getStatus() string {
	if !a.isConnected() {
		return "(disconnected)"
	}
	return fmt.Sprintf("(%s)", wallet.Shorten(a.session.Owner()))
}

func (a *App) Root(ctx context.Context) {
	fmt.Println("Welcome to BeyondPad CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	runREPL(ctx, a, a.getStatus, scanner)
}
