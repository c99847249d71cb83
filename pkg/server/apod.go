package server

import (
	"net/http"

	"github.com/cosmoscope/cosmoscope/pkg/cache"
)

var apodDate = dateRule{field: "date", earliest: "1995-06-16"}

const apodMaxRangeDays = 30

type apodQuery struct {
	Date string `query:"date" validate:"omitempty,datetime=2006-01-02"`
}

type apodRangeQuery struct {
	StartDate string `query:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `query:"end_date" validate:"required,datetime=2006-01-02"`
}

type apodRandomQuery struct {
	Count int `query:"count" validate:"min=1,max=10"`
}

func (s *Server) handleAPOD(w http.ResponseWriter, r *http.Request) error {
	var q apodQuery
	if err := bindQuery(r.URL.Query(), &q); err != nil {
		return err
	}
	if err := check(&q); err != nil {
		return err
	}
	if q.Date != "" {
		if _, err := apodDate.parse(q.Date, s.now()); err != nil {
			return err
		}
	}

	apod, err := s.upstream.APOD(r.Context(), q.Date)
	if err != nil {
		return err
	}
	if apod.Fallback {
		w.Header().Set(cache.HeaderDataSource, cache.DataSourceFallback)
	}
	return s.writeData(w, apod)
}

func (s *Server) handleAPODRange(w http.ResponseWriter, r *http.Request) error {
	var q apodRangeQuery
	if err := bindQuery(r.URL.Query(), &q); err != nil {
		return err
	}
	if err := check(&q); err != nil {
		return err
	}
	start, err := dateRule{field: "start_date", earliest: apodDate.earliest}.parse(q.StartDate, s.now())
	if err != nil {
		return err
	}
	end, err := dateRule{field: "end_date", earliest: apodDate.earliest}.parse(q.EndDate, s.now())
	if err != nil {
		return err
	}
	if err := dateSpan(start, end, apodMaxRangeDays); err != nil {
		return err
	}

	list, err := s.upstream.APODRange(r.Context(), q.StartDate, q.EndDate)
	if err != nil {
		return err
	}
	return s.writeList(w, list, len(list))
}

func (s *Server) handleAPODRandom(w http.ResponseWriter, r *http.Request) error {
	q := apodRandomQuery{Count: 1}
	if err := bindQuery(r.URL.Query(), &q); err != nil {
		return err
	}
	if err := check(&q); err != nil {
		return err
	}

	list, err := s.upstream.APODRandom(r.Context(), q.Count)
	if err != nil {
		return err
	}
	return s.writeList(w, list, len(list))
}
