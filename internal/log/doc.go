// Package log provides a redacting slog handler for mdcrawl.
//
// The crawler carries bearer tokens and cookie strings in its configuration
// so that authenticated documentation sites can be scraped. Those values
// must never reach log output: the RedactingHandler masks attribute values
// whose keys look credential-shaped (authorization, cookie, token, ...)
// and string values matching bearer/basic/JWT patterns before handing the
// record to the underlying handler.
package log
