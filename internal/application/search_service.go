package application

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/eadebayo/delicioso/internal/domain/entity"
	"github.com/eadebayo/delicioso/internal/domain/repository"
)

const (
	// textSearchSize caps ranked free-text results.
	textSearchSize = 5
	// nearLimit caps the map projection result set.
	nearLimit = 10
	// defaultNearRadiusMeters applies when the caller gives no radius.
	defaultNearRadiusMeters = 10000

	// Reference sphere radii for converting a distance to an angular radius.
	earthRadiusMiles  = 3963.2
	earthRadiusKm     = 6378.1
	earthRadiusMeters = 6378100

	// Meters-to-unit multipliers for the distance projection.
	metersToMiles = 0.000621371
	metersToKm    = 0.001
)

// StoreHit is one ranked hit of the free-text search.
type StoreHit struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

// SearchService resolves the four directory query modes: ranked text search
// against Elasticsearch, and the three geo modes against Postgres. It also
// maintains the Elasticsearch store index.
type SearchService struct {
	Stores repository.StoreRepository
	ES     *elasticsearch.Client
	Index  string
	Logger *logrus.Logger
}

func NewSearchService(stores repository.StoreRepository, es *elasticsearch.Client, index string, logger *logrus.Logger) *SearchService {
	return &SearchService{Stores: stores, ES: es, Index: index, Logger: logger}
}

// Text runs a multi_match query over name and description, name boosted,
// and returns at most five hits ordered by relevance score.
func (s *SearchService) Text(ctx context.Context, q string) ([]StoreHit, error) {
	if s.ES == nil || s.Index == "" {
		return []StoreHit{}, nil
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "description"},
			},
		},
		"size": textSearchSize,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.Index),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string   `json:"_id"`
				Score  float64  `json:"_score"`
				Source StoreHit `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]StoreHit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		hit := h.Source
		hit.ID = h.ID
		hit.Score = h.Score
		out = append(out, hit)
	}
	return out, nil
}

// Near returns at most ten stores within the radius (meters, default 10km)
// of the given point, nearest first. Lng and lat arrive as raw query
// strings; anything unparseable is an ErrInvalidQuery.
func (s *SearchService) Near(ctx context.Context, lngStr, latStr, radiusStr string) ([]*entity.Store, error) {
	lng, lat, err := parseLngLat(lngStr, latStr)
	if err != nil {
		return nil, err
	}
	radius := float64(defaultNearRadiusMeters)
	if radiusStr != "" {
		radius, err = strconv.ParseFloat(radiusStr, 64)
		if err != nil || radius <= 0 {
			return nil, ErrInvalidQuery
		}
	}
	return s.Stores.Near(ctx, lng, lat, radius, nearLimit)
}

// Within returns every store inside the spherical cap centered on latlng
// ("lat,lng") with the given radius in the given unit ("mi" or "km"). The
// result is a pure containment filter with no ordering guarantee.
func (s *SearchService) Within(ctx context.Context, distanceStr, latlng, unit string) ([]*entity.Store, error) {
	lat, lng, err := parseLatLngPair(latlng)
	if err != nil {
		return nil, err
	}
	distance, err := strconv.ParseFloat(distanceStr, 64)
	if err != nil || distance < 0 {
		return nil, ErrInvalidQuery
	}
	angular := distance / earthRadiusKm
	if unit == "mi" {
		angular = distance / earthRadiusMiles
	}
	return s.Stores.Within(ctx, lng, lat, angular*earthRadiusMeters)
}

// Distances annotates every store with its distance from latlng in the
// requested unit, nearest first.
func (s *SearchService) Distances(ctx context.Context, latlng, unit string) ([]repository.StoreDistance, error) {
	lat, lng, err := parseLatLngPair(latlng)
	if err != nil {
		return nil, err
	}
	multiplier := metersToKm
	if unit == "mi" {
		multiplier = metersToMiles
	}
	return s.Stores.Distances(ctx, lng, lat, multiplier)
}

// IndexStore writes the store document into the search index.
func (s *SearchService) IndexStore(ctx context.Context, st *entity.Store) error {
	if s.ES == nil || s.Index == "" {
		return nil
	}
	doc := map[string]any{
		"name":        st.Name,
		"slug":        st.Slug,
		"description": st.Description,
		"tags":        st.Tags,
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.Index, DocumentID: st.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("store_id", st.ID).Warn("es index response error")
	}
	return nil
}

// RemoveStore deletes the store document from the search index.
func (s *SearchService) RemoveStore(ctx context.Context, id string) error {
	if s.ES == nil || s.Index == "" {
		return nil
	}
	req := esapi.DeleteRequest{Index: s.Index, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	return nil
}

func parseLngLat(lngStr, latStr string) (lng, lat float64, err error) {
	if lngStr == "" || latStr == "" {
		return 0, 0, ErrInvalidQuery
	}
	lng, err = strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return 0, 0, ErrInvalidQuery
	}
	lat, err = strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, ErrInvalidQuery
	}
	return lng, lat, nil
}

// parseLatLngPair splits a "lat,lng" path segment.
func parseLatLngPair(latlng string) (lat, lng float64, err error) {
	parts := strings.Split(latlng, ",")
	if len(parts) != 2 {
		return 0, 0, ErrInvalidQuery
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, ErrInvalidQuery
	}
	lng, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, ErrInvalidQuery
	}
	return lat, lng, nil
}
