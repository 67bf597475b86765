package mkvprobe

import (
	"context"

	"github.com/ansel1/merry/v2"

	"mkvmux/models"
)

// ResolveTrack turns a TrackSource into a Track. A PathSource is identified
// with prober and must name a track id present in the file; an ExistingTrack
// is returned as is.
func ResolveTrack(ctx context.Context, prober Prober, src models.TrackSource) (models.Track, error) {
	switch s := src.(type) {
	case models.ExistingTrack:
		return s.Track, nil
	case *models.ExistingTrack:
		if s == nil {
			break
		}
		return s.Track, nil
	case models.PathSource:
		return resolvePath(ctx, prober, s)
	case *models.PathSource:
		if s == nil {
			break
		}
		return resolvePath(ctx, prober, *s)
	}
	return models.Track{}, merry.Wrap(models.ErrTypeMismatch, merry.WithMessage("track source is not a path or a track"))
}

func resolvePath(ctx context.Context, prober Prober, src models.PathSource) (models.Track, error) {
	if prober == nil {
		return models.Track{}, merry.New("no prober configured to identify " + src.Path)
	}
	result, err := prober.Identify(ctx, src.Path)
	if err != nil {
		return models.Track{}, err
	}
	pt, ok := result.FindTrack(src.TrackID)
	if !ok {
		return models.Track{}, merry.Wrap(models.ErrNotFound, merry.WithMessagef("track %d not found in %s", src.TrackID, src.Path))
	}
	return pt.ModelTrack(src.Path), nil
}
