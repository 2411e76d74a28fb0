package domain

import (
	"net/url"
	"strconv"
	"strings"
)

// ParseIdentifiers extracts the mapset and beatmap ids from a link shaped like
// https://osu.ppy.sh/beatmapsets/<mapset>/...#<mode>/<beatmap>.
//
// Extraction is positional: path segment 1 and fragment segment 1. Links with an
// extra path prefix or another fragment layout parse into wrong ids without error.
// Segments are split in their escaped form, so an encoded slash never separates them.
func ParseIdentifiers(link string) (IdentifierPair, error) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return IdentifierPair{}, &ParseError{Link: link, Reason: ErrInvalidURL, Err: err}
	}

	if u.Scheme == "" || u.Host == "" {
		return IdentifierPair{}, &ParseError{Link: link, Reason: ErrInvalidURL}
	}

	pathSegments := strings.Split(strings.TrimPrefix(u.EscapedPath(), "/"), "/")
	if len(pathSegments) < 2 {
		return IdentifierPair{}, &ParseError{Link: link, Reason: ErrMissingPathSegment}
	}

	if !strings.Contains(link, "#") {
		return IdentifierPair{}, &ParseError{Link: link, Reason: ErrMissingFragment}
	}

	fragmentSegments := strings.Split(u.EscapedFragment(), "/")
	if len(fragmentSegments) < 2 {
		return IdentifierPair{}, &ParseError{Link: link, Reason: ErrMissingFragmentSegment}
	}

	mapsetID, err := parseID(pathSegments[1])
	if err != nil {
		return IdentifierPair{}, &ParseError{Link: link, Reason: ErrNotANumber, Err: err}
	}

	beatmapID, err := parseID(fragmentSegments[1])
	if err != nil {
		return IdentifierPair{}, &ParseError{Link: link, Reason: ErrNotANumber, Err: err}
	}

	return IdentifierPair{MapsetID: mapsetID, BeatmapID: beatmapID}, nil
}

func parseID(segment string) (uint32, error) {
	id, err := strconv.ParseUint(segment, 10, 32)
	if err != nil {
		return 0, err
	}

	return uint32(id), nil
}
