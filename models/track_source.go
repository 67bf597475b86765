package models

// TrackSource is what a caller hands over when adding a track: either a path
// that still has to be identified, or a track that already exists.
type TrackSource interface {
	trackSource()
}

// PathSource refers to track TrackID inside the file at Path.
type PathSource struct {
	Path    string
	TrackID int
}

// ExistingTrack wraps an already identified Track.
type ExistingTrack struct {
	Track Track
}

func (PathSource) trackSource()    {}
func (ExistingTrack) trackSource() {}
