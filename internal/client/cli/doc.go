// Package cli provides the interactive BeyondPad command-line client.
//
// It wires configuration, the storage backend, the sponsored relay, and an
// interactive REPL. Typical flow: unlock the wallet, resolve the smart
// account, load and decrypt existing notes, and execute user commands.
//
// Key features:
//   - Connect / Disconnect (keystore-backed wallet session)
//   - Save notes, optionally shared with a collaborator or NFT-gated
//   - List / Show decrypted notes
//   - Status and confirmation of pending relay tasks
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, Connect, and runREPL for details.
package cli
