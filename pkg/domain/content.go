package domain

import "time"

// ReelType categorizes discovery content.
type ReelType string

const (
	ReelFood  ReelType = "Food"
	ReelPlace ReelType = "Place"
)

// Reel is a short-form video surfaced in the discovery feed.
type Reel struct {
	ID            string         `json:"id" bson:"id"`
	InstagramURL  string         `json:"instagram_url" bson:"instagram_url"`
	EmbedCode     string         `json:"embed_code" bson:"embed_code"`
	Title         string         `json:"title" bson:"title"`
	Description   string         `json:"description,omitempty" bson:"description,omitempty"`
	Location      string         `json:"location" bson:"location"`
	Type          ReelType       `json:"type" bson:"type"`
	CreatorHandle string         `json:"creator_handle,omitempty" bson:"creator_handle,omitempty"`
	Tags          []string       `json:"tags" bson:"tags"`
	Metadata      map[string]any `json:"metadata" bson:"metadata"`
	Upvotes       int            `json:"upvotes" bson:"upvotes"`
	Saves         int            `json:"saves" bson:"saves"`
	CreatedAt     time.Time      `json:"created_at" bson:"created_at"`
}

// SavedReel records a user bookmarking a reel.
type SavedReel struct {
	ID      string    `json:"id" bson:"id"`
	UserID  string    `json:"user_id" bson:"user_id"`
	ReelID  string    `json:"reel_id" bson:"reel_id"`
	SavedAt time.Time `json:"saved_at" bson:"saved_at"`
}

// Place is a ranked recommendation returned by the top-places feed.
type Place struct {
	Name        string   `json:"name"`
	City        string   `json:"city"`
	Type        ReelType `json:"type"`
	Rating      float64  `json:"rating"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}
