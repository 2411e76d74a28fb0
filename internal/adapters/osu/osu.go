// Package osu talks to the osu! website: cover images, .osu chart files and the v1 metadata API.
package osu

import "context"

const (
	DefaultAPIURL     = "https://osu.ppy.sh/api"
	DefaultBeatmapURL = "https://osu.ppy.sh/osu"
	DefaultAssetsURL  = "https://assets.ppy.sh/beatmaps"
)

type downloader interface {
	Download(ctx context.Context, resource, url, logURL string) ([]byte, error)
}
