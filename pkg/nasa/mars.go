package nasa

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/cosmoscope/cosmoscope/pkg/models"
)

const marsBase = "/mars-photos/api/v1"

// MarsPhotos returns rover photos matching q.
func (c *Client) MarsPhotos(ctx context.Context, q models.MarsPhotoQuery) ([]models.MarsPhoto, error) {
	params := url.Values{}
	switch {
	case q.EarthDate != "":
		params.Set("earth_date", q.EarthDate)
	case q.Sol != nil:
		params.Set("sol", strconv.Itoa(*q.Sol))
	}
	if q.Camera != "" {
		params.Set("camera", strings.ToLower(q.Camera))
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}

	var out models.MarsPhotosPage
	if err := c.get(ctx, marsBase+"/rovers/"+strings.ToLower(q.Rover)+"/photos", params, &out); err != nil {
		return nil, err
	}
	return out.Photos, nil
}

// MarsLatestPhotos returns the photos of the rover's most recent sol.
func (c *Client) MarsLatestPhotos(ctx context.Context, rover string) ([]models.MarsPhoto, error) {
	var out models.MarsLatestPhotos
	if err := c.get(ctx, marsBase+"/rovers/"+strings.ToLower(rover)+"/latest_photos", nil, &out); err != nil {
		return nil, err
	}
	return out.LatestPhotos, nil
}

type manifestBody struct {
	PhotoManifest *models.RoverManifest `json:"photo_manifest"`
}

func (b *manifestBody) Validate() error {
	if b.PhotoManifest == nil {
		return errors.New("rover manifest: missing photo_manifest")
	}
	return b.PhotoManifest.Validate()
}

// RoverManifest returns the mission manifest of rover.
func (c *Client) RoverManifest(ctx context.Context, rover string) (models.RoverManifest, error) {
	var out manifestBody
	if err := c.get(ctx, marsBase+"/manifests/"+strings.ToLower(rover), nil, &out); err != nil {
		return models.RoverManifest{}, err
	}
	return *out.PhotoManifest, nil
}
