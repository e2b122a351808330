package discovery

import (
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/toria/pkg/domain"
	"github.com/google/uuid"
)

var sampleReels = []domain.Reel{
	{
		InstagramURL:  "https://www.instagram.com/reel/C8vKqJ5pXYZ/",
		Title:         "Amazing Street Food in Delhi",
		Description:   "Must-try street food spots in Old Delhi",
		Location:      "Delhi",
		Type:          domain.ReelFood,
		CreatorHandle: "@weareindiians",
		Tags:          []string{"street food", "delhi", "chaat"},
		Metadata:      map[string]any{"price": "₹50-200", "hygiene": "Good", "timing": "10:00 AM - 11:00 PM"},
		Upvotes:       120,
		Saves:         45,
	},
	{
		InstagramURL:  "https://www.instagram.com/reel/C8wLrK6qYZA/",
		Title:         "Hidden Gem Cafe in Mumbai",
		Description:   "Cozy cafe with amazing sea views",
		Location:      "Mumbai",
		Type:          domain.ReelPlace,
		CreatorHandle: "@20xxkidd",
		Tags:          []string{"cafe", "mumbai", "sea view"},
		Metadata:      map[string]any{"price": "₹300-800", "vibe": "Chill", "timing": "8:00 AM - 10:00 PM"},
		Upvotes:       89,
		Saves:         32,
	},
	{
		InstagramURL:  "https://www.instagram.com/reel/C8xMsL7rZAB/",
		Title:         "Best Breakfast Spots",
		Description:   "Traditional South Indian breakfast places",
		Location:      "Bangalore",
		Type:          domain.ReelFood,
		CreatorHandle: "@corporate.vibess",
		Tags:          []string{"breakfast", "bangalore", "dosa"},
		Metadata:      map[string]any{"price": "₹80-250", "hygiene": "Excellent", "timing": "6:30 AM - 12:00 PM"},
		Upvotes:       156,
		Saves:         67,
	},
}

// SampleReels returns the seed content with stable IDs.
func SampleReels(at time.Time) []domain.Reel {
	reels := make([]domain.Reel, len(sampleReels))
	for i, r := range sampleReels {
		r.ID = uuid.NewSHA1(reelNamespace, []byte(r.InstagramURL)).String()
		r.EmbedCode = embed(r.InstagramURL)
		r.CreatedAt = at
		reels[i] = r
	}
	return reels
}

// CityReels generates n placeholder reels for a city. The same city always
// yields the same IDs, so upvotes and saves can refer to them.
func CityReels(city string, n int, at time.Time) []domain.Reel {
	city = strings.TrimSpace(city)
	kinds := []domain.ReelType{domain.ReelFood, domain.ReelPlace}

	reels := make([]domain.Reel, 0, n)
	for i := 0; i < n; i++ {
		kind := kinds[i%2]
		url := fmt.Sprintf("https://instagram.com/p/%s-%d", strings.ToLower(strings.ReplaceAll(city, " ", "-")), i)
		reels = append(reels, domain.Reel{
			ID:            uuid.NewSHA1(reelNamespace, []byte(url)).String(),
			InstagramURL:  url,
			EmbedCode:     embed(url),
			Title:         fmt.Sprintf("Amazing %s Experience #%d", city, i),
			Description:   fmt.Sprintf("Discover the best of %s with this incredible %s experience!", city, strings.ToLower(string(kind))),
			Location:      city,
			Type:          kind,
			CreatorHandle: fmt.Sprintf("@traveler%d", i),
			Tags:          []string{strings.ToLower(city), strings.ToLower(string(kind)), "travel"},
			Metadata: map[string]any{
				"price":   fmt.Sprintf("₹%d-%d", (i+1)*100, (i+1)*200),
				"hygiene": "Excellent",
				"timing":  fmt.Sprintf("%d:00 AM - %d:00 PM", 9+i%3, 6+i%5),
			},
			Upvotes:   (i + 1) * 10,
			Saves:     (i + 1) * 5,
			CreatedAt: at,
		})
	}
	return reels
}

func embed(url string) string {
	return fmt.Sprintf(`<iframe src="%sembed" width="400" height="480" frameborder="0"></iframe>`, strings.TrimSuffix(url, "/")+"/")
}
