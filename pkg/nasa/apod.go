package nasa

import (
	"context"
	"net/url"
	"strconv"

	"github.com/cosmoscope/cosmoscope/pkg/models"
)

const apodPath = "/planetary/apod"

// APOD returns the picture of the day for date (YYYY-MM-DD), or today when
// date is empty. When NASA cannot be reached at all the built-in fallback
// entry is returned instead of an error.
func (c *Client) APOD(ctx context.Context, date string) (models.APOD, error) {
	params := url.Values{}
	if date != "" {
		params.Set("date", date)
	}
	var out models.APOD
	err := c.get(ctx, apodPath, params, &out)
	if err != nil {
		if isConnectionError(err) {
			c.logger.Warn("apod upstream unreachable, serving fallback", "date", date, "error", redact(err, c.apiKey))
			return c.fallbackAPOD(date), nil
		}
		return models.APOD{}, err
	}
	return out, nil
}

// APODRange returns every entry between start and end inclusive.
func (c *Client) APODRange(ctx context.Context, start, end string) (models.APODList, error) {
	params := url.Values{}
	params.Set("start_date", start)
	params.Set("end_date", end)
	var out models.APODList
	if err := c.get(ctx, apodPath, params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// APODRandom returns count random entries. Random results are never cached.
func (c *Client) APODRandom(ctx context.Context, count int) (models.APODList, error) {
	params := url.Values{}
	params.Set("count", strconv.Itoa(count))
	var out models.APODList
	body, err := c.fetch(ctx, apodPath, params)
	if err != nil {
		return nil, err
	}
	if err := c.decodeBody(apodPath, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// fallbackAPOD is the substitute entry served while the upstream is down.
func (c *Client) fallbackAPOD(date string) models.APOD {
	if date == "" {
		date = c.now().UTC().Format("2006-01-02")
	}
	return models.APOD{
		Date:  date,
		Title: "The Pillars of Creation",
		Explanation: "The upstream picture service is temporarily unreachable. " +
			"This archival image shows the Eagle Nebula's pillars of cold gas and dust, " +
			"where new stars are forming, as imaged by the James Webb Space Telescope's NIRCam.",
		URL:            "https://apod.nasa.gov/apod/image/2210/Pillars_WebbNircam_960.jpg",
		HDURL:          "https://apod.nasa.gov/apod/image/2210/Pillars_WebbNircam_2611.jpg",
		MediaType:      "image",
		ServiceVersion: "v1",
		Copyright:      "NASA, ESA, CSA, STScI",
		Fallback:       true,
	}
}
