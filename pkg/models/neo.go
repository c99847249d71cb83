package models

import (
	"errors"
	"fmt"
)

// DiameterRange is an estimated diameter interval in one unit.
type DiameterRange struct {
	Min float64 `json:"estimated_diameter_min"`
	Max float64 `json:"estimated_diameter_max"`
}

// EstimatedDiameter holds the upstream diameter estimates.
type EstimatedDiameter struct {
	Kilometers DiameterRange `json:"kilometers"`
	Meters     DiameterRange `json:"meters"`
}

// RelativeVelocity values are decimal strings upstream.
type RelativeVelocity struct {
	KilometersPerSecond string `json:"kilometers_per_second"`
	KilometersPerHour   string `json:"kilometers_per_hour"`
	MilesPerHour        string `json:"miles_per_hour"`
}

// MissDistance values are decimal strings upstream.
type MissDistance struct {
	Astronomical string `json:"astronomical"`
	Lunar        string `json:"lunar"`
	Kilometers   string `json:"kilometers"`
	Miles        string `json:"miles"`
}

// CloseApproach is one close approach of an object to a body.
type CloseApproach struct {
	Date             string           `json:"close_approach_date"`
	DateFull         string           `json:"close_approach_date_full"`
	EpochDate        int64            `json:"epoch_date_close_approach"`
	RelativeVelocity RelativeVelocity `json:"relative_velocity"`
	MissDistance     MissDistance     `json:"miss_distance"`
	OrbitingBody     string           `json:"orbiting_body"`
}

// NearEarthObject is an asteroid record.
type NearEarthObject struct {
	ID                 string            `json:"id"`
	NEOReferenceID     string            `json:"neo_reference_id"`
	Name               string            `json:"name"`
	NASAJPLURL         string            `json:"nasa_jpl_url"`
	AbsoluteMagnitudeH float64           `json:"absolute_magnitude_h"`
	EstimatedDiameter  EstimatedDiameter `json:"estimated_diameter"`
	Hazardous          bool              `json:"is_potentially_hazardous_asteroid"`
	CloseApproachData  []CloseApproach   `json:"close_approach_data"`
	Sentry             bool              `json:"is_sentry_object"`
}

func (o *NearEarthObject) Validate() error {
	if o.ID == "" {
		return errors.New("near earth object: missing id")
	}
	if o.Name == "" {
		return fmt.Errorf("near earth object %s: missing name", o.ID)
	}
	return nil
}

// NEOFeed is the upstream feed body; objects are grouped by approach date.
type NEOFeed struct {
	ElementCount     int                          `json:"element_count"`
	NearEarthObjects map[string][]NearEarthObject `json:"near_earth_objects"`
}

func (f *NEOFeed) Validate() error {
	if f.NearEarthObjects == nil {
		return errors.New("neo feed: missing near_earth_objects")
	}
	for date, objs := range f.NearEarthObjects {
		for i := range objs {
			if err := objs[i].Validate(); err != nil {
				return fmt.Errorf("neo feed %s: %w", date, err)
			}
		}
	}
	return nil
}

// PageInfo is upstream pagination metadata.
type PageInfo struct {
	Size          int `json:"size"`
	TotalElements int `json:"total_elements"`
	TotalPages    int `json:"total_pages"`
	Number        int `json:"number"`
}

// NEOBrowse is one page of the asteroid catalogue.
type NEOBrowse struct {
	Page             PageInfo          `json:"page"`
	NearEarthObjects []NearEarthObject `json:"near_earth_objects"`
}

func (b *NEOBrowse) Validate() error {
	if b.NearEarthObjects == nil {
		return errors.New("neo browse: missing near_earth_objects")
	}
	for i := range b.NearEarthObjects {
		if err := b.NearEarthObjects[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ApproachSummary is a close approach with numeric fields.
type ApproachSummary struct {
	Date              string  `json:"date"`
	DateFull          string  `json:"date_full,omitempty"`
	VelocityKPS       float64 `json:"velocity_km_s"`
	MissDistanceKM    float64 `json:"miss_distance_km"`
	MissDistanceLunar float64 `json:"miss_distance_lunar"`
	OrbitingBody      string  `json:"orbiting_body"`
}

// NEOSummary is the reshaped form of a NearEarthObject.
type NEOSummary struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	NASAJPLURL         string           `json:"nasa_jpl_url,omitempty"`
	AbsoluteMagnitudeH float64          `json:"absolute_magnitude_h"`
	DiameterMinMeters  float64          `json:"diameter_min_m"`
	DiameterMaxMeters  float64          `json:"diameter_max_m"`
	AvgDiameterMeters  float64          `json:"avg_diameter_m"`
	Hazardous          bool             `json:"hazardous"`
	Sentry             bool             `json:"sentry"`
	CloseApproach      *ApproachSummary `json:"close_approach,omitempty"`
}

// NEODetail is a single object lookup with its full approach history.
type NEODetail struct {
	NEOSummary
	CloseApproachData []CloseApproach `json:"close_approach_data"`
}

// NEODay groups the objects approaching on one date.
type NEODay struct {
	Date           string       `json:"date"`
	Count          int          `json:"count"`
	HazardousCount int          `json:"hazardous_count"`
	Objects        []NEOSummary `json:"objects"`
}

// NEOFeedSummary is the reshaped feed response.
type NEOFeedSummary struct {
	StartDate      string      `json:"start_date"`
	EndDate        string      `json:"end_date"`
	ElementCount   int         `json:"element_count"`
	HazardousCount int         `json:"hazardous_count"`
	Closest        *NEOSummary `json:"closest,omitempty"`
	Days           []NEODay    `json:"days"`
}
