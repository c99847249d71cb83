package server

import (
	"context"

	"github.com/cosmoscope/cosmoscope/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_upstream.go -package=mocks github.com/cosmoscope/cosmoscope/pkg/server Upstream

// Upstream is the NASA data source used by the handlers. *nasa.Client
// implements it.
type Upstream interface {
	APOD(ctx context.Context, date string) (models.APOD, error)
	APODRange(ctx context.Context, start, end string) (models.APODList, error)
	APODRandom(ctx context.Context, count int) (models.APODList, error)
	MarsPhotos(ctx context.Context, q models.MarsPhotoQuery) ([]models.MarsPhoto, error)
	MarsLatestPhotos(ctx context.Context, rover string) ([]models.MarsPhoto, error)
	RoverManifest(ctx context.Context, rover string) (models.RoverManifest, error)
	NEOFeed(ctx context.Context, start, end string) (models.NEOFeed, error)
	NEOLookup(ctx context.Context, id string) (models.NearEarthObject, error)
	NEOBrowse(ctx context.Context, page, size int) (models.NEOBrowse, error)
	EPICImages(ctx context.Context, collection, date string) (models.EPICImageList, error)
	EPICDates(ctx context.Context, collection string) (models.EPICDateList, error)
	CacheStats(ctx context.Context) (models.CacheStats, error)
	ClearCache(ctx context.Context, pattern string) (int, error)
}
