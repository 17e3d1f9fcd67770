// Package sync keeps one client convergent with the authority-owned game
// session. It binds the client's participant identity, caches the canonical
// session aggregate, derives the composed "current session" view, reconciles
// authority pushes into local state, and keeps the display event log.
//
// Clients never merge: every update is a whole-aggregate replacement pushed
// or fetched from the authority, and the most recently broadcast state wins.
package sync
