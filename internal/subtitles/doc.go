// Package subtitles turns a downloaded SubRip payload into the handful of
// display lines offered to the curator.
//
// ParseSRT splits the payload into timed cues, DropAdvertisements removes
// release-group credits and URLs, and Lines reduces the opening cues to clean
// single-line text. The opensubtitles subpackage fetches the payload.
package subtitles
