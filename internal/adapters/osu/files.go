package osu

import (
	"context"
	"fishbot/internal/core/domain"
	"fmt"
	"strings"
)

// Files serves raw .osu chart files.
type Files struct {
	downloader downloader
	baseURL    string
}

func NewFiles(d downloader, baseURL string) *Files {
	return &Files{downloader: d, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (f *Files) Beatmap(ctx context.Context, beatmapID uint32) ([]byte, error) {
	url := fmt.Sprintf("%s/%d", f.baseURL, beatmapID)

	data, err := f.downloader.Download(ctx, "beatmap file", url, url)
	if err != nil {
		return nil, err
	}

	// unknown ids answer 200 with an empty body
	if len(data) == 0 {
		return nil, fmt.Errorf("beatmap file %d is empty: %w", beatmapID, domain.ErrBeatmapNotFound)
	}

	return data, nil
}
