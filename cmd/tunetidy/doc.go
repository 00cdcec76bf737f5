// Command tunetidy identifies MP3 files by acoustic fingerprint, rewrites
// their tags from MusicBrainz, and reorganizes them into an
// Artist/Album/NN - Title layout. Files that cannot be identified with
// confidence are quarantined under an _unmatched tree that mirrors their
// original folder structure.
package main
