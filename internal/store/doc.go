// Package store implements SQLite persistence for users, mailbox
// credentials, custom keywords and generated package records.
package store
