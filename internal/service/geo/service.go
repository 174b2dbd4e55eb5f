// internal/service/geo/service.go

package geo

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/BrownBean2017/SpotShare-MVP/internal/domain/spot"
)

// ReferencePoint is the city center new listings are placed around,
// since there is no geocoding
var ReferencePoint = spot.Location{Lat: 37.7749, Lng: -122.4194}

// DefaultSpread is the width in degrees of the square new listings land in
const DefaultSpread = 0.05

// Locator places listings at a random offset from a reference point
type Locator struct {
	center spot.Location
	spread float64
	rng    *rand.Rand
	mu     sync.Mutex
}

// NewLocator creates a locator. A zero seed draws one from the clock.
func NewLocator(center spot.Location, spread float64, seed int64) *Locator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Locator{
		center: center,
		spread: spread,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Place returns a location within spread/2 of the center on both axes
func (l *Locator) Place() spot.Location {
	l.mu.Lock()
	defer l.mu.Unlock()

	return spot.Location{
		Lat: l.center.Lat + (l.rng.Float64()-0.5)*l.spread,
		Lng: l.center.Lng + (l.rng.Float64()-0.5)*l.spread,
	}
}

// Map projection constants for the simulated San Francisco map
const (
	mapOriginLng = -122.43
	mapOriginLat = 37.8
	mapScale     = 8000
	mapOffset    = 50
)

// Project converts a location to percent offsets on the simulated map
func Project(loc spot.Location) (x, y float64) {
	x = (loc.Lng-mapOriginLng)*mapScale + mapOffset
	y = (mapOriginLat-loc.Lat)*mapScale + mapOffset
	return x, y
}

// CalculateDistance returns the great-circle distance between two locations in kilometers
func CalculateDistance(a, b spot.Location) float64 {
	const earthRadiusKm = 6371.0

	lat1 := a.Lat * math.Pi / 180.0
	lon1 := a.Lng * math.Pi / 180.0
	lat2 := b.Lat * math.Pi / 180.0
	lon2 := b.Lng * math.Pi / 180.0

	dLat := lat2 - lat1
	dLon := lon2 - lon1
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
