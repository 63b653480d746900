package trip

import "time"

// Template is the shared, cache-keyed itinerary artifact. It is created once
// at generation time, read by any number of instances, and never mutated.
type Template struct {
	Key       string    `json:"key" bson:"key"`
	Itinerary Itinerary `json:"itinerary" bson:"-"`
	ImageURL  string    `json:"imageUrl" bson:"image_url"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}
