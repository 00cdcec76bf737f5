// Package scanner discovers MP3 files under the configured source tree.
//
// Scanning only stats entries; file content is never read here. Unreadable
// entries are logged and skipped so a single bad directory cannot abort a
// run, but an unreadable source root is a hard error.
package scanner
