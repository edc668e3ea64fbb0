// Package router carries validated control commands from connection
// goroutines into the single window-owning loop and returns one result per
// command through a single-use reply slot.
//
// It owns the closed command union, the reply slot primitive, and the inbound
// queue the window manager drains. The queue is the only point of contact
// between connection handlers and window state: producers submit a command
// paired with a fresh slot, the owning loop executes the command and fulfills
// the slot exactly once. No locks guard the route list because the owning
// loop is its sole mutator.
//
// Add new control operations by extending the command union and the Execute
// switch together so dispatch stays exhaustive.
package router
