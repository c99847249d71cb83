package server

import (
	"net/http"
	"slices"
	"strings"

	"github.com/cosmoscope/cosmoscope/pkg/apperr"
	"github.com/cosmoscope/cosmoscope/pkg/models"
)

const (
	defaultSol        = 1000
	manifestRecentSol = 10
)

var rovers = []models.RoverInfo{
	{Name: "Curiosity", Cameras: []string{"FHAZ", "RHAZ", "MAST", "CHEMCAM", "MAHLI", "MARDI", "NAVCAM"}},
	{Name: "Opportunity", Cameras: []string{"FHAZ", "RHAZ", "NAVCAM", "PANCAM", "MINITES"}},
	{Name: "Spirit", Cameras: []string{"FHAZ", "RHAZ", "NAVCAM", "PANCAM", "MINITES"}},
	{Name: "Perseverance", Cameras: []string{
		"EDL_RUCAM", "EDL_RDCAM", "EDL_DDCAM", "EDL_PUCAM1", "EDL_PUCAM2",
		"NAVCAM_LEFT", "NAVCAM_RIGHT", "MCZ_RIGHT", "MCZ_LEFT",
		"FRONT_HAZCAM_LEFT_A", "FRONT_HAZCAM_RIGHT_A", "REAR_HAZCAM_LEFT", "REAR_HAZCAM_RIGHT",
		"SKYCAM", "SHERLOC_WATSON", "SUPERCAM_RMI", "LCAM",
	}},
}

func lookupRover(name string) (models.RoverInfo, error) {
	for _, rv := range rovers {
		if strings.EqualFold(rv.Name, name) {
			return rv, nil
		}
	}
	names := make([]string, len(rovers))
	for i, rv := range rovers {
		names[i] = strings.ToLower(rv.Name)
	}
	return models.RoverInfo{}, apperr.Validationf("rover must be one of: %s", strings.Join(names, ", "))
}

type marsPhotosQuery struct {
	Rover     string `query:"rover"`
	Sol       *int   `query:"sol" validate:"omitempty,min=0"`
	EarthDate string `query:"earth_date" validate:"omitempty,datetime=2006-01-02"`
	Camera    string `query:"camera"`
	Page      int    `query:"page" validate:"min=1"`
}

func (s *Server) handleRovers(w http.ResponseWriter, r *http.Request) error {
	return s.writeList(w, rovers, len(rovers))
}

func (s *Server) handleMarsPhotos(w http.ResponseWriter, r *http.Request) error {
	q := marsPhotosQuery{Rover: "curiosity", Page: 1}
	if err := bindQuery(r.URL.Query(), &q); err != nil {
		return err
	}
	if err := check(&q); err != nil {
		return err
	}
	rover, err := lookupRover(q.Rover)
	if err != nil {
		return err
	}
	if q.Sol != nil && q.EarthDate != "" {
		return apperr.Validation("sol and earth_date are mutually exclusive")
	}
	if q.EarthDate != "" {
		if _, err := (dateRule{field: "earth_date"}).parse(q.EarthDate, s.now()); err != nil {
			return err
		}
	} else if q.Sol == nil {
		sol := defaultSol
		q.Sol = &sol
	}
	camera := strings.ToUpper(q.Camera)
	if camera != "" && !slices.Contains(rover.Cameras, camera) {
		return apperr.Validationf("camera must be one of: %s", strings.Join(rover.Cameras, ", "))
	}

	photos, err := s.upstream.MarsPhotos(r.Context(), models.MarsPhotoQuery{
		Rover:     strings.ToLower(rover.Name),
		Sol:       q.Sol,
		EarthDate: q.EarthDate,
		Camera:    camera,
		Page:      q.Page,
	})
	if err != nil {
		return err
	}

	res := photosResult(rover.Name, photos)
	res.Sol = q.Sol
	res.EarthDate = q.EarthDate
	res.Camera = camera
	res.Page = q.Page
	return s.writeData(w, res)
}

func (s *Server) handleMarsLatest(w http.ResponseWriter, r *http.Request) error {
	rover, err := lookupRover(pathValue(r, "rover"))
	if err != nil {
		return err
	}
	photos, err := s.upstream.MarsLatestPhotos(r.Context(), strings.ToLower(rover.Name))
	if err != nil {
		return err
	}

	res := photosResult(rover.Name, photos)
	res.Page = 1
	if len(photos) > 0 {
		sol := photos[0].Sol
		res.Sol = &sol
		res.EarthDate = photos[0].EarthDate
	}
	return s.writeData(w, res)
}

func (s *Server) handleRoverManifest(w http.ResponseWriter, r *http.Request) error {
	rover, err := lookupRover(pathValue(r, "rover"))
	if err != nil {
		return err
	}
	m, err := s.upstream.RoverManifest(r.Context(), strings.ToLower(rover.Name))
	if err != nil {
		return err
	}
	return s.writeData(w, trimManifest(m))
}

// photosResult counts photos and lists the distinct cameras they came from.
func photosResult(rover string, photos []models.MarsPhoto) models.MarsPhotosResult {
	if photos == nil {
		photos = []models.MarsPhoto{}
	}
	cameras := []string{}
	for _, p := range photos {
		if p.Camera.Name != "" && !slices.Contains(cameras, p.Camera.Name) {
			cameras = append(cameras, p.Camera.Name)
		}
	}
	slices.Sort(cameras)
	return models.MarsPhotosResult{
		Rover:   rover,
		Count:   len(photos),
		Cameras: cameras,
		Photos:  photos,
	}
}

// trimManifest replaces the per-sol list, which runs to thousands of
// entries, with its most recent sols.
func trimManifest(m models.RoverManifest) models.RoverManifest {
	if n := len(m.Photos); n > manifestRecentSol {
		m.RecentSols = slices.Clone(m.Photos[n-manifestRecentSol:])
	} else {
		m.RecentSols = m.Photos
	}
	m.Photos = nil
	return m
}
