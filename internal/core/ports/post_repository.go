package ports

import (
	"context"

	"github.com/feedboard/social-api/internal/core/domain"
)

// PostRepository defines persistence operations on the posts collection.
// Read methods populate Creator via an explicit lookup join against the users
// collection; the two collections are linked by identifier only.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	// List returns one page of posts sorted by creation time descending,
	// together with the total number of posts.
	List(ctx context.Context, page, perPage int) ([]*domain.Post, int64, error)
	Update(ctx context.Context, post *domain.Post) (*domain.Post, error)
	Delete(ctx context.Context, id string) error
}
