// Package browse implements the dataset listing overlay.
//
// A [Modal] fetches the listing through a [Source] each time it is opened and
// turns every record into a [Card]. Nothing is kept once it closes. Each open
// takes a generation [Ticket]; a result carrying a stale ticket is dropped so
// that at most one listing is ever shown.
package browse
