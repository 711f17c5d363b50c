package ports

import (
	"context"

	"github.com/feedboard/social-api/internal/core/domain"
)

// UserRepository defines persistence operations on the users collection.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	UpdateStatus(ctx context.Context, id, status string) error
	// AddPost and RemovePost maintain the user side of the User↔Post
	// relationship. They are called sequentially after the post write; the
	// pair is not transactional (see FeedService).
	AddPost(ctx context.Context, userID, postID string) error
	RemovePost(ctx context.Context, userID, postID string) error
}
