// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for fmake.
//
// This package implements the Cobra command hierarchy for the fmake CLI:
// the root command, the build/order/makefile pipeline commands, and the
// configuration subcommands. Command handlers delegate to the internal
// packages through an App composition root so tests can swap dependencies.
package cmd
