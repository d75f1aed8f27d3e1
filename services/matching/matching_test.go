package matching

import (
	"testing"

	"doerhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func TestHaversineZeroDistance(t *testing.T) {
	assert.InDelta(t, 0, Haversine(12.9, 77.58, 12.9, 77.58), 1e-9)
}

func TestHaversineSymmetry(t *testing.T) {
	d1 := Haversine(12.90, 77.58, 13.50, 78.00)
	d2 := Haversine(13.50, 78.00, 12.90, 77.58)
	assert.InDelta(t, d1, d2, 1e-9)
}

func TestHaversineKnownDistance(t *testing.T) {
	// Roughly 6 km between these two points in Bengaluru.
	d := Haversine(12.90, 77.58, 12.95, 77.60)
	assert.InDelta(t, 6.0, d, 0.5)

	// And roughly 80 km out to the second point, well past any radius.
	far := Haversine(12.90, 77.58, 13.50, 78.00)
	assert.Greater(t, far, 50.0)
}

func provider(id, categoryID string, lat, lon float64) models.Provider {
	return models.Provider{
		ID:          id,
		CategoryID:  categoryID,
		LocationLat: ptr(lat),
		LocationLon: ptr(lon),
		IsOnline:    true,
		Verified:    true,
	}
}

func TestFilterProvidersRadiusAndOrder(t *testing.T) {
	near := provider("near", "plumbing", 12.95, 77.60)
	nearer := provider("nearer", "plumbing", 12.91, 77.58)
	far := provider("far", "plumbing", 13.50, 78.00)

	matches := FilterProviders([]models.Provider{near, far, nearer}, 12.90, 77.58, "plumbing", DefaultRadiusKm)

	require.Len(t, matches, 2)
	assert.Equal(t, "nearer", matches[0].Provider.ID)
	assert.Equal(t, "near", matches[1].Provider.ID)
	assert.Less(t, matches[0].DistanceKm, matches[1].DistanceKm)
}

func TestFilterProvidersEligibility(t *testing.T) {
	offline := provider("offline", "plumbing", 12.90, 77.58)
	offline.IsOnline = false

	unverified := provider("unverified", "plumbing", 12.90, 77.58)
	unverified.Verified = false

	wrongCategory := provider("wrong-category", "cleaning", 12.90, 77.58)

	untracked := provider("untracked", "plumbing", 0, 0)
	untracked.LocationLat = nil
	untracked.LocationLon = nil

	eligible := provider("eligible", "plumbing", 12.90, 77.58)

	matches := FilterProviders(
		[]models.Provider{offline, unverified, wrongCategory, untracked, eligible},
		12.90, 77.58, "plumbing", DefaultRadiusKm,
	)

	require.Len(t, matches, 1)
	assert.Equal(t, "eligible", matches[0].Provider.ID)
}

func TestFilterRequests(t *testing.T) {
	prov := provider("p1", "plumbing", 12.90, 77.58)

	assigned := "other-provider"
	candidates := []models.ServiceRequest{
		{ID: "open-near", CategoryID: "plumbing", Status: models.RequestStatusPending, Lat: ptr(12.95), Lon: ptr(77.60)},
		{ID: "open-far", CategoryID: "plumbing", Status: models.RequestStatusPending, Lat: ptr(13.50), Lon: ptr(78.00)},
		{ID: "taken", CategoryID: "plumbing", Status: models.RequestStatusAccepted, ProviderID: &assigned, Lat: ptr(12.90), Lon: ptr(77.58)},
		{ID: "no-coords", CategoryID: "plumbing", Status: models.RequestStatusPending},
		{ID: "other-category", CategoryID: "cleaning", Status: models.RequestStatusPending, Lat: ptr(12.90), Lon: ptr(77.58)},
	}

	matches := FilterRequests(candidates, &prov, DefaultRadiusKm)

	require.Len(t, matches, 1)
	assert.Equal(t, "open-near", matches[0].Request.ID)
	assert.InDelta(t, 6.0, matches[0].DistanceKm, 0.5)
}

func TestNearbyRequestsUntrackedProvider(t *testing.T) {
	svc := &DefaultMatchingService{}
	untracked := &models.Provider{ID: "p1", CategoryID: "plumbing"}

	matches, err := svc.NearbyRequests(untracked)
	require.NoError(t, err)
	assert.Empty(t, matches)
}
