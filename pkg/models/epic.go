package models

import (
	"errors"
	"math"
)

// Coordinates2D is a latitude/longitude pair.
type Coordinates2D struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Vector3 is a J2000 position in kilometres.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Norm returns the vector length.
func (v Vector3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Dot returns the dot product of v and o.
func (v Vector3) Dot(o Vector3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Quaternion is the spacecraft attitude.
type Quaternion struct {
	Q0 float64 `json:"q0"`
	Q1 float64 `json:"q1"`
	Q2 float64 `json:"q2"`
	Q3 float64 `json:"q3"`
}

// EPICImage is the metadata of one EPIC earth image.
type EPICImage struct {
	Identifier          string        `json:"identifier"`
	Caption             string        `json:"caption"`
	Image               string        `json:"image"`
	Version             string        `json:"version"`
	CentroidCoordinates Coordinates2D `json:"centroid_coordinates"`
	DSCOVRPosition      Vector3       `json:"dscovr_j2000_position"`
	LunarPosition       Vector3       `json:"lunar_j2000_position"`
	SunPosition         Vector3       `json:"sun_j2000_position"`
	AttitudeQuaternions Quaternion    `json:"attitude_quaternions"`
	// Date is "YYYY-MM-DD hh:mm:ss".
	Date string `json:"date"`
}

func (e *EPICImage) Validate() error {
	if e.Identifier == "" {
		return errors.New("epic image: missing identifier")
	}
	if e.Image == "" || len(e.Date) < len("2006-01-02") {
		return errors.New("epic image " + e.Identifier + ": missing image name or date")
	}
	return nil
}

// EPICImageList is the array form of the images endpoint.
type EPICImageList []EPICImage

func (l EPICImageList) Validate() error {
	for i := range l {
		if err := l[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// EPICDate is one entry of the available dates listing.
type EPICDate struct {
	Date string `json:"date"`
}

// EPICDateList is the array form of the dates endpoint.
type EPICDateList []EPICDate

func (l EPICDateList) Validate() error {
	for _, d := range l {
		if d.Date == "" {
			return errors.New("epic dates: empty date")
		}
	}
	return nil
}

// EPICImageView is an image with its archive URLs resolved.
type EPICImageView struct {
	EPICImage
	ImageURL         string  `json:"image_url"`
	ThumbnailURL     string  `json:"thumbnail_url"`
	DSCOVRDistanceKM float64 `json:"dscovr_distance_km"`
}

// EPICPosition summarises the geometry at capture time.
type EPICPosition struct {
	Identifier       string  `json:"identifier"`
	Date             string  `json:"date"`
	DSCOVRDistanceKM float64 `json:"dscovr_distance_km"`
	LunarDistanceKM  float64 `json:"lunar_distance_km"`
	SunDistanceKM    float64 `json:"sun_distance_km"`
	// SEVAngleDeg is the Sun-Earth-Vehicle angle.
	SEVAngleDeg float64 `json:"sev_angle_deg"`
}
