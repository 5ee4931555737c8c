package dto

import "time"

type PublishResponse struct {
	Slug        string    `json:"slug"`
	ObjectURL   string    `json:"object_url"`
	FeedURL     string    `json:"feed_url,omitempty"`
	EventCount  int       `json:"event_count"`
	PublishedAt time.Time `json:"published_at"`
}
