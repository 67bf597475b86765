package merge

import (
	"context"

	"github.com/ansel1/merry/v2"
	"go.uber.org/zap"

	"mkvmux/mkvprobe"
	"mkvmux/models"
)

// FileSource is what AddFile accepts: a path to identify, or another builder.
type FileSource interface {
	fileSource()
}

// FilePath is a media file that is identified and imported on add.
type FilePath string

// ExistingFile is a builder whose tracks are appended.
type ExistingFile struct {
	File *MergeBuilder
}

func (FilePath) fileSource()     {}
func (ExistingFile) fileSource() {}

func outOfRange(index, length int) error {
	return merry.Wrap(models.ErrOutOfRange, merry.WithMessagef("track index %d out of range [0, %d)", index, length))
}

func (m *MergeBuilder) inRange(index int) bool {
	return index >= 0 && index < len(m.tracks)
}

// Len returns the number of tracks.
func (m *MergeBuilder) Len() int {
	return len(m.tracks)
}

// Tracks returns a copy of the tracks in output order.
func (m *MergeBuilder) Tracks() []models.Track {
	return append([]models.Track(nil), m.tracks...)
}

// Track returns the track at index.
func (m *MergeBuilder) Track(index int) (models.Track, error) {
	if !m.inRange(index) {
		return models.Track{}, outOfRange(index, len(m.tracks))
	}
	return m.tracks[index], nil
}

// AddTrack appends a track. A PathSource is identified first. A non-empty name
// overrides the track's name.
func (m *MergeBuilder) AddTrack(ctx context.Context, src models.TrackSource, name string) error {
	track, err := mkvprobe.ResolveTrack(ctx, m.prober, src)
	if err != nil {
		return err
	}
	if err := track.Validate(); err != nil {
		return merry.Wrap(models.ErrInvalidArgument, merry.WithCause(err), merry.WithMessagef("invalid track: %v", err))
	}
	if name != "" {
		track.Name = name
	}

	m.tracks = append(m.tracks, track)
	m.logger.Debug("added track",
		zap.String("source", track.SourcePath),
		zap.Int("track_id", track.TrackID),
		zap.String("type", track.Type.Value),
	)
	return nil
}

// AddFile appends every track of another file, keeping their relative order.
func (m *MergeBuilder) AddFile(ctx context.Context, src FileSource) error {
	var tracks []models.Track
	switch s := src.(type) {
	case FilePath:
		other := m.derive()
		if err := other.importFile(ctx, string(s), ""); err != nil {
			return err
		}
		tracks = other.tracks
	case ExistingFile:
		if s.File == nil {
			return merry.Wrap(models.ErrTypeMismatch, merry.WithMessage("file is nil"))
		}
		tracks = s.File.Tracks()
	default:
		return merry.Wrap(models.ErrTypeMismatch, merry.WithMessage("file source is not a path or a file"))
	}

	m.tracks = append(m.tracks, tracks...)
	return nil
}

// derive returns an empty builder sharing m's collaborators.
func (m *MergeBuilder) derive() *MergeBuilder {
	return &MergeBuilder{
		mkvmergePath: m.mkvmergePath,
		prober:       m.prober,
		runner:       m.runner,
		languages:    m.languages,
		logger:       m.logger,
	}
}

// RemoveTrack deletes the track at index.
func (m *MergeBuilder) RemoveTrack(index int) error {
	if !m.inRange(index) {
		return outOfRange(index, len(m.tracks))
	}
	m.tracks = append(m.tracks[:index], m.tracks[index+1:]...)
	return nil
}

// ReplaceTrack substitutes the track at index.
func (m *MergeBuilder) ReplaceTrack(index int, track models.Track) error {
	if !m.inRange(index) {
		return outOfRange(index, len(m.tracks))
	}
	if err := track.Validate(); err != nil {
		return merry.Wrap(models.ErrInvalidArgument, merry.WithCause(err), merry.WithMessagef("invalid track: %v", err))
	}
	m.tracks[index] = track
	return nil
}

// MoveTrackFront moves the track at index to position 0. The other tracks
// keep their relative order.
func (m *MergeBuilder) MoveTrackFront(index int) error {
	if !m.inRange(index) {
		return outOfRange(index, len(m.tracks))
	}
	track := m.tracks[index]
	copy(m.tracks[1:index+1], m.tracks[:index])
	m.tracks[0] = track
	return nil
}

// MoveTrackEnd moves the track at index to the last position. The other
// tracks keep their relative order.
func (m *MergeBuilder) MoveTrackEnd(index int) error {
	if !m.inRange(index) {
		return outOfRange(index, len(m.tracks))
	}
	track := m.tracks[index]
	copy(m.tracks[index:], m.tracks[index+1:])
	m.tracks[len(m.tracks)-1] = track
	return nil
}

// MoveTrackForward swaps the track at index with the one after it. index
// must be in [0, Len()-1).
func (m *MergeBuilder) MoveTrackForward(index int) error {
	if index < 0 || index >= len(m.tracks)-1 {
		return outOfRange(index, len(m.tracks)-1)
	}
	m.tracks[index], m.tracks[index+1] = m.tracks[index+1], m.tracks[index]
	return nil
}

// MoveTrackBackward swaps the track at index with the one before it. index
// must be in (0, Len()).
func (m *MergeBuilder) MoveTrackBackward(index int) error {
	if index <= 0 || index >= len(m.tracks) {
		return merry.Wrap(models.ErrOutOfRange, merry.WithMessagef("track index %d out of range (0, %d)", index, len(m.tracks)))
	}
	m.tracks[index], m.tracks[index-1] = m.tracks[index-1], m.tracks[index]
	return nil
}

// SwapTracks exchanges the tracks at i and j.
func (m *MergeBuilder) SwapTracks(i, j int) error {
	if !m.inRange(i) {
		return outOfRange(i, len(m.tracks))
	}
	if !m.inRange(j) {
		return outOfRange(j, len(m.tracks))
	}
	m.tracks[i], m.tracks[j] = m.tracks[j], m.tracks[i]
	return nil
}
