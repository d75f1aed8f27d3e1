package matching

import (
	"fmt"
	"math"
	"sort"

	providerRepo "doerhub/database/repository/provider"
	requestRepo "doerhub/database/repository/request"
	"doerhub/models"
)

// DefaultRadiusKm is the matching radius when no override is configured.
const DefaultRadiusKm = 10.0

// ProviderMatch pairs a candidate provider with its distance from the
// reference point.
type ProviderMatch struct {
	Provider   models.Provider `json:"provider"`
	DistanceKm float64         `json:"distanceKm"`
}

// RequestMatch pairs an open request with its distance from the provider.
type RequestMatch struct {
	Request    models.ServiceRequest `json:"request"`
	DistanceKm float64               `json:"distanceKm"`
}

// MatchingService finds counterparts within the matching radius.
type MatchingService interface {
	// NearbyProviders returns online, verified providers of the category
	// within the radius of (lat, lon), closest first.
	NearbyProviders(lat, lon float64, categoryID string) ([]ProviderMatch, error)
	// NearbyRequests returns pending, unassigned requests of the provider's
	// category within the radius of its location, closest first.
	NearbyRequests(provider *models.Provider) ([]RequestMatch, error)
}

// DefaultMatchingService filters repository candidates with the pure
// eligibility and distance rules below.
type DefaultMatchingService struct {
	ProviderRepo providerRepo.ProviderRepository
	RequestRepo  requestRepo.RequestRepository
	RadiusKm     float64
}

func (s *DefaultMatchingService) radius() float64 {
	if s.RadiusKm > 0 {
		return s.RadiusKm
	}
	return DefaultRadiusKm
}

func (s *DefaultMatchingService) NearbyProviders(lat, lon float64, categoryID string) ([]ProviderMatch, error) {
	candidates, err := s.ProviderRepo.GetByCategory(categoryID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve providers: %w", err)
	}
	return FilterProviders(candidates, lat, lon, categoryID, s.radius()), nil
}

func (s *DefaultMatchingService) NearbyRequests(provider *models.Provider) ([]RequestMatch, error) {
	if provider.CategoryID == "" || !provider.HasCoordinates() {
		return nil, nil
	}
	candidates, err := s.RequestRepo.ListOpenByCategory(provider.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve open requests: %w", err)
	}
	return FilterRequests(candidates, provider, s.radius()), nil
}

// FilterProviders applies the provider eligibility rules: online, verified,
// same category, coordinates present, within radiusKm. Missing coordinates
// or category exclude the candidate outright. The sort is stable so equal
// distances keep insertion order.
func FilterProviders(candidates []models.Provider, lat, lon float64, categoryID string, radiusKm float64) []ProviderMatch {
	var matches []ProviderMatch
	for _, p := range candidates {
		if !p.IsOnline || !p.Verified || p.CategoryID != categoryID || !p.HasCoordinates() {
			continue
		}
		d := Haversine(lat, lon, *p.LocationLat, *p.LocationLon)
		if d > radiusKm {
			continue
		}
		matches = append(matches, ProviderMatch{Provider: p, DistanceKm: d})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].DistanceKm < matches[j].DistanceKm
	})
	return matches
}

// FilterRequests applies the request eligibility rules: pending, unassigned,
// same category as the provider, coordinates present, within radiusKm.
func FilterRequests(candidates []models.ServiceRequest, provider *models.Provider, radiusKm float64) []RequestMatch {
	var matches []RequestMatch
	for _, req := range candidates {
		if req.Status != models.RequestStatusPending || req.ProviderID != nil {
			continue
		}
		if req.CategoryID != provider.CategoryID || !req.HasCoordinates() {
			continue
		}
		d := Haversine(*provider.LocationLat, *provider.LocationLon, *req.Lat, *req.Lon)
		if d > radiusKm {
			continue
		}
		matches = append(matches, RequestMatch{Request: req, DistanceKm: d})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].DistanceKm < matches[j].DistanceKm
	})
	return matches
}

// Haversine calculates the great-circle distance (in km) between two lat/lon
// points on a spherical earth (mean radius 6371 km). Inputs are degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}
