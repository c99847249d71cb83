package nasa

import (
	"context"

	"github.com/cosmoscope/cosmoscope/pkg/models"
)

const epicBase = "/EPIC/api/"

// EPICImages returns the image metadata of collection for date, or the most
// recent day when date is empty.
func (c *Client) EPICImages(ctx context.Context, collection, date string) (models.EPICImageList, error) {
	endpoint := epicBase + collection
	if date != "" {
		endpoint += "/date/" + date
	}
	var out models.EPICImageList
	if err := c.get(ctx, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EPICDates lists the days that have imagery in collection.
func (c *Client) EPICDates(ctx context.Context, collection string) (models.EPICDateList, error) {
	var out models.EPICDateList
	if err := c.get(ctx, epicBase+collection+"/all", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
