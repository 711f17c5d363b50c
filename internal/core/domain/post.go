package domain

import "time"

// Post is a feed entry owned by exactly one User. The owning user keeps the
// post id in its Posts list; both sides are maintained by the feed service,
// not by the store.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"image_url"`
	CreatorID string    `json:"creator_id"`
	Creator   *User     `json:"creator,omitempty"` // populated on reads via lookup join
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
