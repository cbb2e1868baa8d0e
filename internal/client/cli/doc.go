// Package cli provides the interactive BiblioTube terminal client.
//
// It wires configuration, the on-device SQLite library, the PostgreSQL cloud
// library, the session manager and a line-oriented REPL. On start the client
// restores the saved session, syncs once and looks at the clipboard for a
// video link to save.
//
// Key features:
//   - Register / Login / Unlock / Logout
//   - Folders, videos (with platform and importance filters) and reminders
//   - Deep links ("open bibliotube://video?url=...") and clipboard capture
//   - Sync with the cloud library and JSON export to S3
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
