// Package daemon hosts the window manager loop and the optional control
// server behind a single lifecycle, guarded by a file lock so only one
// casement daemon runs per runtime directory.
//
// A control server that cannot bind disables only the remote-control
// subsystem; the window host itself stays up.
package daemon
