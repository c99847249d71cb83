package server

import (
	"math"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/cosmoscope/cosmoscope/pkg/apperr"
	"github.com/cosmoscope/cosmoscope/pkg/models"
)

const neoMaxFeedDays = 7

type neoFeedQuery struct {
	StartDate string `query:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `query:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

type neoBrowseQuery struct {
	Page int `query:"page" validate:"min=0"`
	Size int `query:"size" validate:"min=1,max=20"`
}

type neoLookupPath struct {
	ID string `query:"id" validate:"digits"`
}

func (s *Server) handleNEOFeed(w http.ResponseWriter, r *http.Request) error {
	var q neoFeedQuery
	if err := bindQuery(r.URL.Query(), &q); err != nil {
		return err
	}
	if err := check(&q); err != nil {
		return err
	}
	start, err := time.Parse(dateLayout, q.StartDate)
	if err != nil {
		return apperr.Validation("start_date must be a date in YYYY-MM-DD format")
	}
	end := start.AddDate(0, 0, neoMaxFeedDays)
	if q.EndDate != "" {
		if end, err = time.Parse(dateLayout, q.EndDate); err != nil {
			return apperr.Validation("end_date must be a date in YYYY-MM-DD format")
		}
	}
	if err := dateSpan(start, end, neoMaxFeedDays); err != nil {
		return err
	}

	startStr, endStr := start.Format(dateLayout), end.Format(dateLayout)
	feed, err := s.upstream.NEOFeed(r.Context(), startStr, endStr)
	if err != nil {
		return err
	}
	return s.writeData(w, summarizeFeed(feed, startStr, endStr))
}

func (s *Server) handleNEOBrowse(w http.ResponseWriter, r *http.Request) error {
	q := neoBrowseQuery{Page: 0, Size: 20}
	if err := bindQuery(r.URL.Query(), &q); err != nil {
		return err
	}
	if err := check(&q); err != nil {
		return err
	}
	page, err := s.upstream.NEOBrowse(r.Context(), q.Page, q.Size)
	if err != nil {
		return err
	}
	return s.writeData(w, page)
}

func (s *Server) handleNEOLookup(w http.ResponseWriter, r *http.Request) error {
	p := neoLookupPath{ID: pathValue(r, "id")}
	if err := check(&p); err != nil {
		return err
	}
	obj, err := s.upstream.NEOLookup(r.Context(), p.ID)
	if err != nil {
		return err
	}

	sum := summarizeNEO(obj, nextApproach(obj.CloseApproachData, s.now().UTC().Format(dateLayout)))
	approaches := obj.CloseApproachData
	if approaches == nil {
		approaches = []models.CloseApproach{}
	}
	return s.writeData(w, models.NEODetail{NEOSummary: sum, CloseApproachData: approaches})
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func summarizeApproach(ca models.CloseApproach) *models.ApproachSummary {
	return &models.ApproachSummary{
		Date:              ca.Date,
		DateFull:          ca.DateFull,
		VelocityKPS:       parseFloat(ca.RelativeVelocity.KilometersPerSecond),
		MissDistanceKM:    parseFloat(ca.MissDistance.Kilometers),
		MissDistanceLunar: parseFloat(ca.MissDistance.Lunar),
		OrbitingBody:      ca.OrbitingBody,
	}
}

// summarizeNEO reshapes o around the approach ca (may be nil).
func summarizeNEO(o models.NearEarthObject, ca *models.CloseApproach) models.NEOSummary {
	d := o.EstimatedDiameter.Meters
	sum := models.NEOSummary{
		ID:                 o.ID,
		Name:               o.Name,
		NASAJPLURL:         o.NASAJPLURL,
		AbsoluteMagnitudeH: o.AbsoluteMagnitudeH,
		DiameterMinMeters:  d.Min,
		DiameterMaxMeters:  d.Max,
		AvgDiameterMeters:  (d.Min + d.Max) / 2,
		Hazardous:          o.Hazardous,
		Sentry:             o.Sentry,
	}
	if ca != nil {
		sum.CloseApproach = summarizeApproach(*ca)
	}
	return sum
}

// nextApproach returns the first approach on or after today, else the most
// recent one. Upstream lists approaches chronologically.
func nextApproach(list []models.CloseApproach, today string) *models.CloseApproach {
	if len(list) == 0 {
		return nil
	}
	for i := range list {
		if list[i].Date >= today {
			return &list[i]
		}
	}
	return &list[len(list)-1]
}

func summarizeFeed(feed models.NEOFeed, start, end string) models.NEOFeedSummary {
	out := models.NEOFeedSummary{
		StartDate:    start,
		EndDate:      end,
		ElementCount: feed.ElementCount,
		Days:         make([]models.NEODay, 0, len(feed.NearEarthObjects)),
	}

	for date, objs := range feed.NearEarthObjects {
		day := models.NEODay{Date: date, Count: len(objs), Objects: make([]models.NEOSummary, 0, len(objs))}
		for _, o := range objs {
			var ca *models.CloseApproach
			if len(o.CloseApproachData) > 0 {
				ca = &o.CloseApproachData[0]
			}
			sum := summarizeNEO(o, ca)
			if sum.Hazardous {
				day.HazardousCount++
			}
			if sum.CloseApproach != nil && (out.Closest == nil || sum.CloseApproach.MissDistanceKM < out.Closest.CloseApproach.MissDistanceKM) {
				closest := sum
				out.Closest = &closest
			}
			day.Objects = append(day.Objects, sum)
		}
		sort.SliceStable(day.Objects, func(i, j int) bool {
			return missKM(day.Objects[i]) < missKM(day.Objects[j])
		})
		out.HazardousCount += day.HazardousCount
		out.Days = append(out.Days, day)
	}
	sort.Slice(out.Days, func(i, j int) bool { return out.Days[i].Date < out.Days[j].Date })

	if out.ElementCount == 0 {
		for _, d := range out.Days {
			out.ElementCount += d.Count
		}
	}
	return out
}

// missKM orders objects without an approach last.
func missKM(s models.NEOSummary) float64 {
	if s.CloseApproach == nil {
		return math.MaxFloat64
	}
	return s.CloseApproach.MissDistanceKM
}
