package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/feedboard/social-api/internal/core/domain"
	"github.com/feedboard/social-api/internal/core/ports"
)

// perPage is the fixed feed page size.
const perPage = 2

// imageURLSentinel marks an update that should leave the stored image
// untouched. Clients send the literal string when no new image was uploaded.
const imageURLSentinel = "undefined"

// FeedService implements the post operations. Post writes and the matching
// user post-list writes run sequentially within one call; there is no
// transaction, so a crash between the two steps leaves the pair inconsistent.
// Image deletion is handed to the cleaner and never awaited.
type FeedService struct {
	posts   ports.PostRepository
	users   ports.UserRepository
	cleaner ports.ImageCleaner
	logger  zerolog.Logger
}

func NewFeedService(posts ports.PostRepository, users ports.UserRepository, cleaner ports.ImageCleaner, logger zerolog.Logger) *FeedService {
	return &FeedService{posts: posts, users: users, cleaner: cleaner, logger: logger}
}

// CreatePost stores a new post owned by the caller and appends its id to the
// caller's post list.
func (s *FeedService) CreatePost(ctx context.Context, viewer ports.Viewer, input ports.PostInput) (*domain.Post, error) {
	if !viewer.Authenticated {
		return nil, domain.NotAuthenticated()
	}

	if probs := checkPost(postRules{Title: input.Title, Content: input.Content}); len(probs) > 0 {
		return nil, domain.InvalidInput(probs)
	}

	creator, err := s.users.FindByID(ctx, viewer.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.UserVanished(401)
		}
		return nil, err
	}

	created, err := s.posts.Create(ctx, &domain.Post{
		Title:     input.Title,
		Content:   input.Content,
		ImageURL:  input.ImageURL,
		CreatorID: creator.ID,
	})
	if err != nil {
		return nil, err
	}

	if err := s.users.AddPost(ctx, creator.ID, created.ID); err != nil {
		return nil, err
	}

	s.logger.Info().Str("post_id", created.ID).Str("creator_id", creator.ID).Msg("post created")

	created.Creator = creator
	return created, nil
}

// GetPosts returns one feed page, newest first, with creators populated.
// Pages below 1 are treated as page 1.
func (s *FeedService) GetPosts(ctx context.Context, viewer ports.Viewer, page int) (*ports.FeedPage, error) {
	if !viewer.Authenticated {
		return nil, domain.NotAuthenticated()
	}

	if page < 1 {
		page = 1
	}

	posts, total, err := s.posts.List(ctx, page, perPage)
	if err != nil {
		return nil, err
	}

	return &ports.FeedPage{Posts: posts, TotalItems: total}, nil
}

// GetPost fetches a single post with its creator populated.
func (s *FeedService) GetPost(ctx context.Context, viewer ports.Viewer, postID string) (*domain.Post, error) {
	if !viewer.Authenticated {
		return nil, domain.NotAuthenticated()
	}

	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			return nil, domain.PostNotFound()
		}
		return nil, err
	}
	return post, nil
}

// UpdatePost replaces title and content of the caller's own post. The stored
// image url is replaced only when the supplied value is not the sentinel.
func (s *FeedService) UpdatePost(ctx context.Context, viewer ports.Viewer, postID string, input ports.PostInput) (*domain.Post, error) {
	if !viewer.Authenticated {
		return nil, domain.NotAuthenticated()
	}

	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			return nil, domain.PostNotFound()
		}
		return nil, err
	}

	if post.CreatorID != viewer.UserID {
		return nil, domain.NotAuthorized()
	}

	if probs := checkPost(postRules{Title: input.Title, Content: input.Content}); len(probs) > 0 {
		return nil, domain.InvalidInput(probs)
	}

	post.Title = input.Title
	post.Content = input.Content
	if input.ImageURL != imageURLSentinel {
		post.ImageURL = input.ImageURL
	}

	return s.posts.Update(ctx, post)
}

// DeletePost removes the caller's own post, pulls its id from the caller's
// post list and enqueues best-effort deletion of the attached image.
func (s *FeedService) DeletePost(ctx context.Context, viewer ports.Viewer, postID string) error {
	if !viewer.Authenticated {
		return domain.NotAuthenticated()
	}

	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			return domain.PostNotFound()
		}
		return err
	}

	if post.CreatorID != viewer.UserID {
		return domain.NotAuthorized()
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		return err
	}

	if err := s.users.RemovePost(ctx, viewer.UserID, postID); err != nil {
		return err
	}

	if post.ImageURL != "" {
		s.cleaner.Clear(post.ImageURL)
	}

	s.logger.Info().Str("post_id", postID).Str("creator_id", viewer.UserID).Msg("post deleted")
	return nil
}
