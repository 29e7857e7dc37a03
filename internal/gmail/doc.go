// Package gmail wraps the Gmail API surface the pipeline needs: keyword
// search with pagination, full message retrieval and attachment download.
package gmail
