package server

import (
	"math"
	"net/http"
	"strings"

	"github.com/cosmoscope/cosmoscope/pkg/models"
)

var epicDate = dateRule{field: "date", earliest: "2015-06-13"}

const defaultEPICArchive = "https://epic.gsfc.nasa.gov/archive"

type epicQuery struct {
	Collection string `query:"collection" validate:"oneof=natural enhanced"`
	Date       string `query:"date" validate:"omitempty,datetime=2006-01-02"`
}

// epicRequest binds and validates the collection path value and the
// optional date.
func (s *Server) epicRequest(r *http.Request) (epicQuery, error) {
	var q epicQuery
	if err := bindQuery(r.URL.Query(), &q); err != nil {
		return q, err
	}
	q.Collection = strings.ToLower(pathValue(r, "collection"))
	if err := check(&q); err != nil {
		return q, err
	}
	if q.Date != "" {
		if _, err := epicDate.parse(q.Date, s.now()); err != nil {
			return q, err
		}
	}
	return q, nil
}

func (s *Server) handleEPICImages(w http.ResponseWriter, r *http.Request) error {
	q, err := s.epicRequest(r)
	if err != nil {
		return err
	}
	images, err := s.upstream.EPICImages(r.Context(), q.Collection, q.Date)
	if err != nil {
		return err
	}

	archive := s.epicArchive()
	views := make([]models.EPICImageView, 0, len(images))
	for _, img := range images {
		views = append(views, imageView(archive, q.Collection, img))
	}
	return s.writeList(w, views, len(views))
}

func (s *Server) handleEPICDates(w http.ResponseWriter, r *http.Request) error {
	q := epicQuery{Collection: strings.ToLower(pathValue(r, "collection"))}
	if err := check(&q); err != nil {
		return err
	}
	list, err := s.upstream.EPICDates(r.Context(), q.Collection)
	if err != nil {
		return err
	}

	dates := make([]string, 0, len(list))
	for _, d := range list {
		dates = append(dates, d.Date)
	}
	return s.writeList(w, dates, len(dates))
}

func (s *Server) handleEPICPosition(w http.ResponseWriter, r *http.Request) error {
	q, err := s.epicRequest(r)
	if err != nil {
		return err
	}
	images, err := s.upstream.EPICImages(r.Context(), q.Collection, q.Date)
	if err != nil {
		return err
	}

	positions := make([]models.EPICPosition, 0, len(images))
	for _, img := range images {
		positions = append(positions, position(img))
	}
	return s.writeList(w, positions, len(positions))
}

func (s *Server) epicArchive() string {
	if u := strings.TrimRight(s.cfg.Upstream.EPICArchiveURL, "/"); u != "" {
		return u
	}
	return defaultEPICArchive
}

// imageView resolves the public archive URLs of img, which live under
// <archive>/<collection>/YYYY/MM/DD/{png,thumbs}/.
func imageView(archive, collection string, img models.EPICImage) models.EPICImageView {
	day := img.Date
	if len(day) > len(dateLayout) {
		day = day[:len(dateLayout)]
	}
	day = strings.ReplaceAll(day, "-", "/")
	base := archive + "/" + collection + "/" + day
	return models.EPICImageView{
		EPICImage:        img,
		ImageURL:         base + "/png/" + img.Image + ".png",
		ThumbnailURL:     base + "/thumbs/" + img.Image + ".jpg",
		DSCOVRDistanceKM: round(img.DSCOVRPosition.Norm(), 0),
	}
}

// position computes distances from Earth and the Sun-Earth-Vehicle angle.
// Positions are geocentric J2000 vectors.
func position(img models.EPICImage) models.EPICPosition {
	d, sun := img.DSCOVRPosition, img.SunPosition
	var sev float64
	if n := d.Norm() * sun.Norm(); n > 0 {
		cos := math.Max(-1, math.Min(1, d.Dot(sun)/n))
		sev = math.Acos(cos) * 180 / math.Pi
	}
	return models.EPICPosition{
		Identifier:       img.Identifier,
		Date:             img.Date,
		DSCOVRDistanceKM: round(d.Norm(), 0),
		LunarDistanceKM:  round(img.LunarPosition.Norm(), 0),
		SunDistanceKM:    round(sun.Norm(), 0),
		SEVAngleDeg:      round(sev, 2),
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
