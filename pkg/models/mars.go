package models

import (
	"errors"
	"fmt"
)

// MarsCamera identifies the rover camera that took a photo.
type MarsCamera struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	RoverID  int    `json:"rover_id,omitempty"`
	FullName string `json:"full_name"`
}

// MarsRover describes a rover as embedded in photo responses.
type MarsRover struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	LandingDate string `json:"landing_date"`
	LaunchDate  string `json:"launch_date"`
	Status      string `json:"status"`
}

// MarsPhoto is a single rover photo.
type MarsPhoto struct {
	ID        int        `json:"id"`
	Sol       int        `json:"sol"`
	Camera    MarsCamera `json:"camera"`
	ImgSrc    string     `json:"img_src"`
	EarthDate string     `json:"earth_date"`
	Rover     MarsRover  `json:"rover"`
}

func (p *MarsPhoto) Validate() error {
	if p.ID == 0 {
		return errors.New("mars photo: missing id")
	}
	if p.ImgSrc == "" {
		return fmt.Errorf("mars photo %d: missing img_src", p.ID)
	}
	return nil
}

func validatePhotos(photos []MarsPhoto) error {
	for i := range photos {
		if err := photos[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// MarsPhotosPage is the upstream body of a photos query.
type MarsPhotosPage struct {
	Photos []MarsPhoto `json:"photos"`
}

func (p *MarsPhotosPage) Validate() error {
	if p.Photos == nil {
		return errors.New("mars photos: missing photos array")
	}
	return validatePhotos(p.Photos)
}

// MarsLatestPhotos is the upstream body of a latest_photos query.
type MarsLatestPhotos struct {
	LatestPhotos []MarsPhoto `json:"latest_photos"`
}

func (p *MarsLatestPhotos) Validate() error {
	if p.LatestPhotos == nil {
		return errors.New("mars latest photos: missing latest_photos array")
	}
	return validatePhotos(p.LatestPhotos)
}

// MarsPhotoQuery selects rover photos. Exactly one of Sol and EarthDate is set.
type MarsPhotoQuery struct {
	Rover     string
	Sol       *int
	EarthDate string
	Camera    string
	Page      int
}

// ManifestSol summarises the photos taken on one sol.
type ManifestSol struct {
	Sol         int      `json:"sol"`
	EarthDate   string   `json:"earth_date"`
	TotalPhotos int      `json:"total_photos"`
	Cameras     []string `json:"cameras"`
}

// RoverManifest is a rover's mission manifest.
type RoverManifest struct {
	Name        string        `json:"name"`
	LandingDate string        `json:"landing_date"`
	LaunchDate  string        `json:"launch_date"`
	Status      string        `json:"status"`
	MaxSol      int           `json:"max_sol"`
	MaxDate     string        `json:"max_date"`
	TotalPhotos int           `json:"total_photos"`
	Photos      []ManifestSol `json:"photos,omitempty"`
	// RecentSols holds the last sols of Photos; the full list is dropped from
	// responses.
	RecentSols []ManifestSol `json:"recent_sols,omitempty"`
}

func (m *RoverManifest) Validate() error {
	if m.Name == "" {
		return errors.New("rover manifest: missing name")
	}
	return nil
}

// MarsPhotosResult is the reshaped photos response.
type MarsPhotosResult struct {
	Rover     string      `json:"rover"`
	Sol       *int        `json:"sol,omitempty"`
	EarthDate string      `json:"earth_date,omitempty"`
	Camera    string      `json:"camera,omitempty"`
	Page      int         `json:"page,omitempty"`
	Count     int         `json:"count"`
	Cameras   []string    `json:"cameras"`
	Photos    []MarsPhoto `json:"photos"`
}

// RoverInfo lists a supported rover and its cameras.
type RoverInfo struct {
	Name    string   `json:"name"`
	Cameras []string `json:"cameras"`
}
