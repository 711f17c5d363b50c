package ports

import (
	"context"

	"github.com/feedboard/social-api/internal/core/domain"
)

// Viewer is the per-request identity produced by the auth gate. The gate
// never rejects a request; every privileged operation re-checks
// Authenticated itself.
type Viewer struct {
	Authenticated bool
	UserID        string
}

// SignupInput carries the createUser arguments.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// PostInput carries the createPost/updatePost arguments.
type PostInput struct {
	Title    string
	Content  string
	ImageURL string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token  string
	UserID string
}

// FeedPage is one page of the post feed plus the total post count.
type FeedPage struct {
	Posts      []*domain.Post
	TotalItems int64
}

// AccountService covers the user-facing account operations.
type AccountService interface {
	CreateUser(ctx context.Context, input SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	GetUser(ctx context.Context, viewer Viewer) (*domain.User, error)
	UpdateStatus(ctx context.Context, viewer Viewer, status string) error
}

// FeedService covers the post operations.
type FeedService interface {
	CreatePost(ctx context.Context, viewer Viewer, input PostInput) (*domain.Post, error)
	GetPosts(ctx context.Context, viewer Viewer, page int) (*FeedPage, error)
	GetPost(ctx context.Context, viewer Viewer, postID string) (*domain.Post, error)
	UpdatePost(ctx context.Context, viewer Viewer, postID string, input PostInput) (*domain.Post, error)
	DeletePost(ctx context.Context, viewer Viewer, postID string) error
}

// LoginLimiter throttles login attempts per account. Implementations are
// fail-open: an unreachable backing store must not lock users out.
type LoginLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
