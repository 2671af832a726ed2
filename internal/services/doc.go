// Package services implements the HTTP client for the dataset portal.
//
// # Endpoints
//
//	GET  /files/          listing: {"files": [{"file_id", "title", "description", "tags"}]}
//	GET  /file/{file_id}  raw dataset content
//	POST /upload/         multipart form: file, tags, metadata fields
//	POST /token           OAuth2 password grant
//	GET  /health          liveness
//
// [APIService] performs raw requests and tags each one with an X-Request-ID.
// [PortalService] implements [Portal] on top of it and maps failures onto the
// sentinel errors of the shared package:
//   - [shared.ErrServiceUnavailable] : transport failure
//   - [shared.ErrAPIRequest] : non-2xx status
//   - [shared.ErrMalformedResponse] : body is not the documented JSON shape
//   - [shared.ErrNotFound] : unknown file_id on download
//   - [shared.ErrUploadFailed] : the portal rejected an upload
//
// # Authentication
//
// [NewHTTPClient] wraps an [http.Client] with an oauth2 token source, either a
// static bearer token or one obtained through the password grant.
package services
