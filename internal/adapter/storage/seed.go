// internal/adapter/storage/seed.go

package storage

import "github.com/BrownBean2017/SpotShare-MVP/internal/domain/spot"

// SeedSpots returns a fresh copy of the demo spots every session starts with
func SeedSpots() []spot.ParkingSpot {
	return []spot.ParkingSpot{
		{
			ID:           "1",
			Title:        "Downtown Secure Underground",
			Description:  "Modern, well-lit underground parking right in the financial district. 24/7 security and wide bays.",
			Address:      "450 Montgomery St, San Francisco, CA",
			PricePerHour: 12,
			Type:         spot.TypeUnderground,
			Features:     []string{"EV Charging", "CCTV", "Security Guard"},
			ImageURL:     "https://images.unsplash.com/photo-1506521781263-d8422e82f27a?auto=format&fit=crop&q=80&w=800",
			Rating:       4.9,
			ReviewsCount: 128,
			HostID:       "host-1",
			Location:     spot.Location{Lat: 37.7937, Lng: -122.4025},
		},
		{
			ID:           "2",
			Title:        "Private Driveway near Stadium",
			Description:  "Perfect for game days. Just a 5-minute walk from the entrance. No blocking, easy access.",
			Address:      "24 Willie Mays Plaza, San Francisco, CA",
			PricePerHour: 25,
			Type:         spot.TypeDriveway,
			Features:     []string{"Easy Access", "Gated"},
			ImageURL:     "https://images.unsplash.com/photo-1621944190310-e3cca1564bd7?auto=format&fit=crop&q=80&w=800",
			Rating:       4.7,
			ReviewsCount: 45,
			HostID:       "host-2",
			Location:     spot.Location{Lat: 37.7786, Lng: -122.3893},
		},
		{
			ID:           "3",
			Title:        "Clean Residential Garage",
			Description:  "Extra wide garage in a quiet neighborhood. Safe for high-end vehicles.",
			Address:      "1200 Pacific Ave, San Francisco, CA",
			PricePerHour: 8,
			Type:         spot.TypeGarage,
			Features:     []string{"Indoors", "Quiet"},
			ImageURL:     "https://images.unsplash.com/photo-1590674899484-d5640e854abe?auto=format&fit=crop&q=80&w=800",
			Rating:       4.8,
			ReviewsCount: 67,
			HostID:       "host-3",
			Location:     spot.Location{Lat: 37.7950, Lng: -122.4172},
		},
		{
			ID:           "4",
			Title:        "Mission District Spot",
			Description:  "Standard driveway space. Close to popular bars and restaurants.",
			Address:      "890 Valencia St, San Francisco, CA",
			PricePerHour: 6,
			Type:         spot.TypeDriveway,
			Features:     []string{"Affordable"},
			ImageURL:     "https://images.unsplash.com/photo-1573348722427-f1d6819fdf98?auto=format&fit=crop&q=80&w=800",
			Rating:       4.5,
			ReviewsCount: 89,
			HostID:       "host-4",
			Location:     spot.Location{Lat: 37.7593, Lng: -122.4215},
		},
	}
}
