package domain

import (
	"errors"
	"fmt"
)

const ErrSendingReplyFailed = "failed to send reply"

var (
	ErrInvalidLink            = errors.New("invalid beatmap link")
	ErrInvalidURL             = errors.New("not a valid url")
	ErrMissingPathSegment     = errors.New("missing mapset id in path")
	ErrMissingFragment        = errors.New("missing fragment")
	ErrMissingFragmentSegment = errors.New("missing beatmap id in fragment")
	ErrNotANumber             = errors.New("id is not a number")

	ErrFetchFailed        = errors.New("fetch failed")
	ErrBeatmapNotFound    = errors.New("beatmap not found")
	ErrInvalidBeatmapData = errors.New("invalid beatmap data")
	ErrInvalidImage       = errors.New("invalid image")
)

// ParseError is returned by ParseIdentifiers. Reason is one of the Err* link sentinels.
type ParseError struct {
	Link   string
	Reason error
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s", ErrInvalidLink, e.Reason, e.Err)
	}

	return fmt.Sprintf("%s: %s", ErrInvalidLink, e.Reason)
}

func (e *ParseError) Unwrap() []error {
	errs := []error{ErrInvalidLink, e.Reason}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}

	return errs
}

// FetchError describes a failed call to an external HTTP resource.
type FetchError struct {
	Resource   string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s failed: unexpected status code %d", e.Resource, e.StatusCode)
	}

	return fmt.Sprintf("fetching %s failed: %s", e.Resource, e.Err)
}

func (e *FetchError) Unwrap() []error {
	errs := []error{ErrFetchFailed}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}

	return errs
}
