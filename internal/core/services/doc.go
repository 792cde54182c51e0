// Package services implements the driving port interfaces.
// Services contain the release logic and orchestrate calls to
// driven ports (adapters).
//
// The fragment parser, bump resolver and changelog assembler are plain
// functions over domain values. ReleaseService is the only code that
// touches the stores.
package services
