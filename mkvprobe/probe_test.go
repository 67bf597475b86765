package mkvprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mkvmux/models"
)

const sampleOutput = `{
  "container": {
    "type": "Matroska",
    "recognized": true,
    "supported": true,
    "properties": {"title": "Big Buck Bunny", "duration": 596500000000}
  },
  "file_name": "bunny.mkv",
  "tracks": [
    {"id": 0, "type": "video", "codec": "AVC/H.264/MPEG-4p10",
     "properties": {"default_track": true, "language": "und", "number": 1}},
    {"id": 1, "type": "audio", "codec": "AC-3",
     "properties": {"default_track": false, "forced_track": false, "language": "eng", "track_name": "Stereo"}},
    {"id": 2, "type": "subtitles", "codec": "SubRip/SRT",
     "properties": {"forced_track": true, "language": "ger"}},
    {"id": 3, "type": "buttons", "codec": "HDMV", "properties": {}}
  ],
  "attachments": [{"id": 1, "file_name": "cover.jpg", "content_type": "image/jpeg", "size": 1024}],
  "chapters": [{"num_entries": 12}]
}`

func TestParseIdentifyOutput(t *testing.T) {
	result, err := parseIdentifyOutput([]byte(sampleOutput))
	require.NoError(t, err)

	assert.Equal(t, "Big Buck Bunny", result.Title())
	assert.Equal(t, "Matroska", result.Container.Type)
	assert.InDelta(t, 596.5, result.DurationSeconds(), 0.001)
	assert.Equal(t, 12, result.ChapterCount())
	require.Len(t, result.Tracks, 4)
	require.Len(t, result.Attachments, 1)
	assert.Equal(t, "cover.jpg", result.Attachments[0].FileName)
}

func TestParseIdentifyOutput_Malformed(t *testing.T) {
	_, err := parseIdentifyOutput([]byte("not json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrExternalTool))

	var syntaxErr *json.SyntaxError
	assert.True(t, errors.As(err, &syntaxErr), "decode error is reachable: %v", err)
}

func TestModelTracks(t *testing.T) {
	result, err := parseIdentifyOutput([]byte(sampleOutput))
	require.NoError(t, err)

	tracks := result.ModelTracks("/media/bunny.mkv")
	require.Len(t, tracks, 4)

	tests := []struct {
		name     string
		track    models.Track
		expected models.Track
	}{
		{"Video", tracks[0], models.Track{SourcePath: "/media/bunny.mkv", TrackID: 0, Type: models.TrackTypeVideo, Language: "und", Default: true}},
		{"Audio", tracks[1], models.Track{SourcePath: "/media/bunny.mkv", TrackID: 1, Type: models.TrackTypeAudio, Language: "eng", Name: "Stereo"}},
		{"Subtitles", tracks[2], models.Track{SourcePath: "/media/bunny.mkv", TrackID: 2, Type: models.TrackTypeSubtitles, Language: "ger", Forced: true}},
		{"Buttons", tracks[3], models.Track{SourcePath: "/media/bunny.mkv", TrackID: 3, Type: models.TrackTypeOther}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.track)
		})
	}
}

func TestResultWithoutTitle(t *testing.T) {
	result, err := parseIdentifyOutput([]byte(`{"container": {"properties": {}}, "tracks": []}`))
	require.NoError(t, err)
	assert.Empty(t, result.Title())
	assert.Zero(t, result.DurationSeconds())
	assert.Zero(t, result.ChapterCount())
}

func TestExecProber_Identify(t *testing.T) {
	var gotName string
	var gotArgs []string
	prober := NewExecProber("/opt/mkvtoolnix/mkvmerge", nil).WithRunner(
		func(ctx context.Context, name string, args ...string) ([]byte, error) {
			gotName = name
			gotArgs = args
			return []byte(sampleOutput), nil
		})

	result, err := prober.Identify(context.Background(), "bunny.mkv")
	require.NoError(t, err)
	assert.Equal(t, "/opt/mkvtoolnix/mkvmerge", gotName)
	assert.Equal(t, []string{"-J", "bunny.mkv"}, gotArgs)
	assert.Len(t, result.Tracks, 4)
}

func TestExecProber_DefaultPath(t *testing.T) {
	var gotName string
	prober := NewExecProber("", nil).WithRunner(
		func(ctx context.Context, name string, args ...string) ([]byte, error) {
			gotName = name
			return []byte(`{"tracks": []}`), nil
		})

	_, err := prober.Identify(context.Background(), "a.mkv")
	require.NoError(t, err)
	assert.Equal(t, DefaultMkvmergePath, gotName)
}

func TestExecProber_EmptyPath(t *testing.T) {
	_, err := NewExecProber("", nil).Identify(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be empty")
}

func TestExecProber_ToolFailure(t *testing.T) {
	prober := NewExecProber("", nil).WithRunner(
		func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return nil, fmt.Errorf("exit status 2")
		})

	_, err := prober.Identify(context.Background(), "broken.mkv")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrExternalTool))
	assert.Contains(t, err.Error(), "broken.mkv")
}

func TestExecProber_MissingBinary(t *testing.T) {
	t.Run("Not on PATH", func(t *testing.T) {
		_, err := NewExecProber("no-such-mkvmerge-binary", nil).Identify(context.Background(), "a.mkv")
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrExternalTool))
		assert.True(t, errors.Is(err, exec.ErrNotFound), "lookup error is reachable: %v", err)
	})

	t.Run("Absolute path", func(t *testing.T) {
		_, err := NewExecProber(filepath.Join(t.TempDir(), "no-such-mkvmerge"), nil).Identify(context.Background(), "a.mkv")
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrExternalTool))
		assert.True(t, errors.Is(err, os.ErrNotExist), "path error is reachable: %v", err)
	})
}

func TestExecProber_ExitStatus(t *testing.T) {
	falseBin, err := exec.LookPath("false")
	if err != nil {
		t.Skip("false is not available")
	}

	_, err = NewExecProber(falseBin, nil).Identify(context.Background(), "a.mkv")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrExternalTool))

	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr), "exit status is reachable: %v", err)
	assert.Equal(t, 1, exitErr.ExitCode())
}

func TestExecProber_WithRealFile(t *testing.T) {
	testFile := os.Getenv("MKVMUX_SAMPLE_MKV")
	if testFile == "" {
		t.Skip("MKVMUX_SAMPLE_MKV not set, skipping real file test")
	}
	if _, err := exec.LookPath(DefaultMkvmergePath); err != nil {
		t.Skip("mkvmerge not installed")
	}

	result, err := NewExecProber("", nil).Identify(context.Background(), testFile)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Tracks)
}

type fakeProber struct {
	mu      sync.Mutex
	results map[string]*Result
	calls   atomic.Int32
	failOn  string
}

func (f *fakeProber) Identify(ctx context.Context, path string) (*Result, error) {
	f.calls.Add(1)
	if path == f.failOn {
		return nil, fmt.Errorf("probe of %s failed", path)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.results[path]; ok {
		return r, nil
	}
	return &Result{FileName: path}, nil
}

func TestResolveTrack(t *testing.T) {
	result, err := parseIdentifyOutput([]byte(sampleOutput))
	require.NoError(t, err)
	prober := &fakeProber{results: map[string]*Result{"bunny.mkv": result}}
	ctx := context.Background()

	track, err := ResolveTrack(ctx, prober, models.PathSource{Path: "bunny.mkv", TrackID: 1})
	require.NoError(t, err)
	assert.Equal(t, models.TrackTypeAudio, track.Type)
	assert.Equal(t, "bunny.mkv", track.SourcePath)

	_, err = ResolveTrack(ctx, prober, models.PathSource{Path: "bunny.mkv", TrackID: 9})
	assert.True(t, errors.Is(err, models.ErrNotFound))

	existing := models.Track{SourcePath: "x.mkv", TrackID: 4, Type: models.TrackTypeVideo}
	track, err = ResolveTrack(ctx, nil, models.ExistingTrack{Track: existing})
	require.NoError(t, err)
	assert.Equal(t, existing, track)

	_, err = ResolveTrack(ctx, prober, nil)
	assert.True(t, errors.Is(err, models.ErrTypeMismatch))

	var nilSource *models.PathSource
	_, err = ResolveTrack(ctx, prober, nilSource)
	assert.True(t, errors.Is(err, models.ErrTypeMismatch))

	_, err = ResolveTrack(ctx, nil, models.PathSource{Path: "bunny.mkv"})
	assert.Error(t, err)
}
