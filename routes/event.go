package routes

import "github.com/segmentio/encoding/json"

// FallbackImageURL is used for events constructed without an image.
const FallbackImageURL = "/openair.png"

// Event is a single slide in the fragment's event slider. Values are
// immutable once built; use NewEvent to construct one.
type Event struct {
	title    string
	price    int
	imageURL string
}

// NewEvent builds an Event. The image path is optional; when it is omitted
// or empty the event points at FallbackImageURL.
func NewEvent(title string, price int, imageURL ...string) Event {
	url := FallbackImageURL
	if len(imageURL) > 0 && imageURL[0] != "" {
		url = imageURL[0]
	}
	return Event{title: title, price: price, imageURL: url}
}

func (e Event) Title() string    { return e.title }
func (e Event) Price() int       { return e.price }
func (e Event) ImageURL() string { return e.imageURL }

func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Title    string `json:"title"`
		Price    int    `json:"price"`
		ImageURL string `json:"imageUrl"`
	}{e.title, e.price, e.imageURL})
}
