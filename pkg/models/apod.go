package models

import (
	"errors"
	"fmt"
)

// APOD is one Astronomy Picture of the Day entry.
type APOD struct {
	Date           string `json:"date"`
	Title          string `json:"title"`
	Explanation    string `json:"explanation,omitempty"`
	URL            string `json:"url,omitempty"`
	HDURL          string `json:"hdurl,omitempty"`
	MediaType      string `json:"media_type,omitempty"`
	ServiceVersion string `json:"service_version,omitempty"`
	Copyright      string `json:"copyright,omitempty"`
	ThumbnailURL   string `json:"thumbnail_url,omitempty"`
	// Fallback is set when the entry is the built-in substitute served while
	// the upstream is unreachable.
	Fallback bool `json:"fallback,omitempty"`
}

// Validate checks the fields every APOD response carries.
func (a *APOD) Validate() error {
	if a.Date == "" {
		return errors.New("apod: missing date")
	}
	if a.Title == "" {
		return errors.New("apod: missing title")
	}
	return nil
}

// APODList is the array form returned for range and random queries.
type APODList []APOD

func (l APODList) Validate() error {
	for i := range l {
		if err := l[i].Validate(); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return nil
}
