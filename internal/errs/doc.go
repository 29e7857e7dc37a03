// Package errs defines the classified error taxonomy shared across the
// ingestion pipeline and the HTTP layer.
//
// Fatal classifications (decrypt_failed, refresh_failed, archive_io_error)
// abort a pipeline run; recoverable conditions are contained within their
// stage and never surface through this package.
package errs
