package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/ansel1/merry/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTrack(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		id          int
		trackType   TrackType
		expectError bool
	}{
		{"Valid video", "movie.mkv", 0, TrackTypeVideo, false},
		{"Valid subtitles", "movie.mkv", 3, TrackTypeSubtitles, false},
		{"Empty path", "", 0, TrackTypeAudio, true},
		{"Whitespace path", "   ", 0, TrackTypeAudio, true},
		{"Negative id", "movie.mkv", -1, TrackTypeAudio, true},
		{"Zero type", "movie.mkv", 0, TrackType{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track, err := NewTrack(tt.path, tt.id, tt.trackType)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, track)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.path, track.SourcePath)
			assert.Equal(t, tt.id, track.TrackID)
			assert.False(t, track.Default)
			assert.False(t, track.Forced)
			assert.Empty(t, track.Name)
		})
	}
}

func TestParseTrackType(t *testing.T) {
	tests := []struct {
		input    string
		expected TrackType
	}{
		{"video", TrackTypeVideo},
		{"audio", TrackTypeAudio},
		{"subtitles", TrackTypeSubtitles},
		{"Audio", TrackTypeAudio},
		{"buttons", TrackTypeOther},
		{"", TrackTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseTrackType(tt.input))
		})
	}
}

func TestTrackTypeJSON(t *testing.T) {
	track := Track{SourcePath: "a.mkv", TrackID: 1, Type: TrackTypeSubtitles}

	data, err := json.Marshal(track)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"subtitles"`)

	var decoded Track
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, TrackTypeSubtitles, decoded.Type)
}

func TestTrackIsType(t *testing.T) {
	track := Track{SourcePath: "a.mkv", Type: TrackTypeAudio}
	assert.True(t, track.IsType(TrackTypeAudio))
	assert.False(t, track.IsType(TrackTypeVideo))
}

func TestErrorSentinelsMatchWhenWrapped(t *testing.T) {
	err := merry.Wrap(ErrOutOfRange, merry.WithMessagef("track index %d out of range", 7))
	assert.True(t, errors.Is(err, ErrOutOfRange))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "7")
}
