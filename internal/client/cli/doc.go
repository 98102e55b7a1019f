// Package cli provides the interactive board command-line client.
//
// It wires configuration, the persisted session, the Board API client, the
// post and user stores and the view router into a REPL. The current view
// (login, board or users) decides what list, show, add, edit and delete act
// on. Before every prompt the router re-checks the view against the session,
// so a session torn down by the server lands the user on the login view.
//
// A background watcher pings the API and shows online/offline in the prompt.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
