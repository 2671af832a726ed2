// Package tasks runs the long-lived portal operations with progress reporting.
//
// # Operations
//
// [PortalEngine] exposes two operations shared by the CLI and the TUI:
//
//  1. [PortalEngine.Upload] : submit one staged file with its tags
//     - Prepare phase before the request is built
//     - Send phase reports bytes written to the request body
//     - Complete phase carries the [models.UploadResult]
//
//  2. [PortalEngine.BulkDownload] : fetch several datasets into a directory
//     - A small worker pool shares a rate limiter
//     - Partial failures are recorded, not returned
//     - A manifest summarizing every file is written last
//
// # Progress Reporting
//
// Updates are sent with select and default, so a slow or absent reader never
// blocks the transfer. Consumers must treat progress as lossy.
package tasks
