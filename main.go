// =============================================================================
// Billing Ledger - Main Entry Point
// =============================================================================
//
// This is the main entry point for the billing CLI. It delegates command
// execution to the cmd package.
//
// USAGE:
//   billing client add <name>          - Add a client
//   billing bill add <client>          - Add a bill to a client
//   billing product add ...            - Add a product to a bill
//   billing session [script]           - Run several actions in one session
//   billing show                       - Show the ledger as a tree
//   billing export <client> <bill>     - Export a bill to an XLSX file
//   billing template init [path]       - Write a starter export template
//   billing version                    - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : ledger model, persistence backends, XLSX export
//   - pkg/           : logging and file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/billing-ledger/cmd"
)

func main() {
	cmd.Execute()
}
