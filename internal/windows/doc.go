// Package windows owns the authoritative list of open editor windows.
//
// A single Manager loop is the only code that mutates the route list. It
// drains the control command queue as part of its normal turn, executes each
// command against the list, reaps editor sessions that exit, and fulfills the
// reply slot for every command exactly once. Each window is backed by one
// embedded nvim process spawned through Session.
//
// Never call the Router methods from outside the Manager loop; submit a
// command through the queue instead.
package windows
