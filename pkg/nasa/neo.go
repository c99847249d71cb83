package nasa

import (
	"context"
	"net/url"
	"strconv"

	"github.com/cosmoscope/cosmoscope/pkg/models"
)

const neoBase = "/neo/rest/v1"

// NEOFeed returns the objects with close approaches between start and end.
func (c *Client) NEOFeed(ctx context.Context, start, end string) (models.NEOFeed, error) {
	params := url.Values{}
	params.Set("start_date", start)
	params.Set("end_date", end)
	var out models.NEOFeed
	if err := c.get(ctx, neoBase+"/feed", params, &out); err != nil {
		return models.NEOFeed{}, err
	}
	return out, nil
}

// NEOLookup returns a single object by its SPK id.
func (c *Client) NEOLookup(ctx context.Context, id string) (models.NearEarthObject, error) {
	var out models.NearEarthObject
	if err := c.get(ctx, neoBase+"/neo/"+url.PathEscape(id), nil, &out); err != nil {
		return models.NearEarthObject{}, err
	}
	return out, nil
}

// NEOBrowse returns one page of the catalogue.
func (c *Client) NEOBrowse(ctx context.Context, page, size int) (models.NEOBrowse, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(size))
	var out models.NEOBrowse
	if err := c.get(ctx, neoBase+"/neo/browse", params, &out); err != nil {
		return models.NEOBrowse{}, err
	}
	return out, nil
}
