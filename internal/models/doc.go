// Package models defines the data exchanged with the dataset portal and the status notifications shared by the UI components.
//
//   - [DatasetRecord] : a previously uploaded item as returned by GET /files/
//   - [Listing] : the envelope of the listing endpoint
//   - [Submission] : a staged file plus ordered tags and metadata, ready for POST /upload/
//   - [Status] : a user-visible notification with an info/success/error kind
package models
