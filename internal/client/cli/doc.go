// Package cli provides the interactive placemark client.
//
// It wires configuration, the local database, the HTTP API client and the
// map components into a line-oriented REPL. The terminal stands in for the
// map widget: "click" and "pan" act on an in-process map handle, "view"
// prints what a map would show.
//
// Key features:
//   - Register / Login / Logout / Delete account
//   - List locations (anonymous or signed in)
//   - Locate me, zoom, pan
//   - Click to draft a new location, fill it in, submit or cancel
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
