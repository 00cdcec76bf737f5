// Package musicbrainz resolves MusicBrainz recording IDs into the canonical
// tag field set.
//
// The service enforces a strict one-request-per-second limit, so every call
// through the client passes a blocking pacer first. Release selection prefers
// official albums over EPs and singles and penalizes compilations, matching
// how most libraries want canonical album attribution.
package musicbrainz
