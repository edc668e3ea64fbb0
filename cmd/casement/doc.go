// Package main hosts the casement CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into control
// calls against the window host: listing windows, focusing a window, opening
// new editor windows, and launching the host process itself. It centralizes
// configuration resolution and endpoint discovery so subcommands can focus on
// user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
