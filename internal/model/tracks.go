// internal/model/tracks.go
package model

// MediaTracks holds the audio and video tracks of one side of the session.
// A nil field means the track is not available.
type MediaTracks struct {
	Audio *Track
	Video *Track
}

// Tracks is a snapshot of the tracks currently known to the client
type Tracks struct {
	Local MediaTracks
	Bot   *MediaTracks // nil until the bot publishes anything
}
