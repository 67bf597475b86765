// Package models provides the core data structures for mkvmux.
package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/orsinium-labs/enum"
)

// TrackType is the kind of elementary stream a track carries.
type TrackType enum.Member[string]

var (
	TrackTypeVideo     = TrackType{Value: "video"}
	TrackTypeAudio     = TrackType{Value: "audio"}
	TrackTypeSubtitles = TrackType{Value: "subtitles"}
	TrackTypeOther     = TrackType{Value: "other"}
	TrackTypes         = enum.New(TrackTypeVideo, TrackTypeAudio, TrackTypeSubtitles, TrackTypeOther)
)

// ParseTrackType maps an mkvmerge track type onto a TrackType. Types mkvmerge
// reports that are not video, audio or subtitles (for example "buttons") map to
// TrackTypeOther.
func ParseTrackType(value string) TrackType {
	t := TrackTypes.Parse(strings.ToLower(strings.TrimSpace(value)))
	if t == nil {
		return TrackTypeOther
	}
	return *t
}

//goland:noinspection GoMixedReceiverTypes
func (t TrackType) String() string {
	return t.Value
}

//goland:noinspection GoMixedReceiverTypes
func (t TrackType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Value)
}

//goland:noinspection GoMixedReceiverTypes
func (t *TrackType) UnmarshalJSON(value []byte) error {
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return err
	}
	*t = ParseTrackType(s)
	return nil
}

// Track represents one elementary stream inside a source file.
//
// SourcePath and TrackID identify the stream; TrackID is the id mkvmerge
// assigns to the stream within that file. Type is fixed once the file has been
// identified.
type Track struct {
	SourcePath      string    `json:"source_path"`
	TrackID         int       `json:"track_id"`
	Type            TrackType `json:"type"`
	Name            string    `json:"name,omitempty"`
	Language        string    `json:"language,omitempty"`
	Default         bool      `json:"default"`
	Forced          bool      `json:"forced"`
	ExcludeChapters bool      `json:"exclude_chapters"`
}

// NewTrack creates a validated Track. Flags start out cleared; identification
// fills them from the source file.
//
// Example:
//
//	track, err := models.NewTrack("movie.mkv", 0, models.TrackTypeVideo)
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewTrack(sourcePath string, trackID int, trackType TrackType) (*Track, error) {
	t := &Track{
		SourcePath: sourcePath,
		TrackID:    trackID,
		Type:       trackType,
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid track: %w", err)
	}
	return t, nil
}

// Validate checks if the Track has valid data.
//
// Returns an error if:
//   - SourcePath is empty or whitespace-only
//   - TrackID is negative
//   - Type is not a known TrackType
func (t *Track) Validate() error {
	if strings.TrimSpace(t.SourcePath) == "" {
		return fmt.Errorf("source_path cannot be empty")
	}
	if t.TrackID < 0 {
		return fmt.Errorf("track_id cannot be negative")
	}
	if !TrackTypes.Contains(t.Type) {
		return fmt.Errorf("unknown track type %q", t.Type.Value)
	}
	return nil
}

// IsType reports whether the track carries the given kind of stream.
func (t *Track) IsType(trackType TrackType) bool {
	return t.Type == trackType
}
