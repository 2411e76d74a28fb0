package osu

import (
	"context"
	"fmt"
	"strings"
)

// Assets serves mapset cover images.
type Assets struct {
	downloader downloader
	baseURL    string
}

func NewAssets(d downloader, baseURL string) *Assets {
	return &Assets{downloader: d, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (a *Assets) CoverURL(mapsetID uint32) string {
	return fmt.Sprintf("%s/%d/covers/cover.jpg", a.baseURL, mapsetID)
}

func (a *Assets) Cover(ctx context.Context, mapsetID uint32) ([]byte, error) {
	url := a.CoverURL(mapsetID)
	return a.downloader.Download(ctx, "cover image", url, url)
}
