// Package control exposes the window host over newline-delimited JSON-RPC
// 2.0 on a local socket, and ships the matching client used by the CLI.
//
// It owns endpoint parsing (unix socket paths and Windows named pipes behind
// one address syntax), socket lifecycle, the per-connection read loop, and
// request validation. Validated commands are forwarded through the router
// queue to the window manager loop; the handler suspends on the reply slot
// and writes exactly one response line per request, in request order.
//
// The wire surface is intentionally exactly three methods. Extend it only
// together with the router command union.
package control
