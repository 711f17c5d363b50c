package service

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/feedboard/social-api/internal/core/domain"
	"github.com/feedboard/social-api/internal/core/ports"
)

type stubPostRepo struct {
	posts map[string]*domain.Post
	seq   int
	base  time.Time
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{
		posts: make(map[string]*domain.Post),
		base:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func clonePost(p *domain.Post) *domain.Post {
	clone := *p
	if p.Creator != nil {
		creator := *p.Creator
		clone.Creator = &creator
	}
	return &clone
}

func (r *stubPostRepo) Create(_ context.Context, post *domain.Post) (*domain.Post, error) {
	r.seq++
	clone := clonePost(post)
	clone.ID = fmt.Sprintf("p%d", r.seq)
	clone.CreatedAt = r.base.Add(time.Duration(r.seq) * time.Minute)
	clone.UpdatedAt = clone.CreatedAt
	r.posts[clone.ID] = clone
	return clonePost(clone), nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	found := clonePost(p)
	found.Creator = &domain.User{ID: p.CreatorID}
	return found, nil
}

func (r *stubPostRepo) List(_ context.Context, page, perPage int) ([]*domain.Post, int64, error) {
	all := make([]*domain.Post, 0, len(r.posts))
	for _, p := range r.posts {
		all = append(all, clonePost(p))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	start := (page - 1) * perPage
	if start >= len(all) {
		return nil, int64(len(all)), nil
	}
	end := start + perPage
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(r.posts)), nil
}

func (r *stubPostRepo) Update(_ context.Context, post *domain.Post) (*domain.Post, error) {
	if _, ok := r.posts[post.ID]; !ok {
		return nil, domain.ErrPostNotFound
	}
	clone := clonePost(post)
	r.posts[post.ID] = clone
	return clonePost(clone), nil
}

func (r *stubPostRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.posts[id]; !ok {
		return domain.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

type recordCleaner struct {
	calls []string
}

func (c *recordCleaner) Clear(relPath string) {
	c.calls = append(c.calls, relPath)
}

type feedFixture struct {
	svc     *FeedService
	posts   *stubPostRepo
	users   *stubUserRepo
	cleaner *recordCleaner
	viewer  ports.Viewer
}

func newFeedFixture(t *testing.T) *feedFixture {
	t.Helper()
	users := newStubUserRepo()
	posts := newStubPostRepo()
	cleaner := &recordCleaner{}

	owner, err := users.Create(context.Background(), &domain.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "x"})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	return &feedFixture{
		svc:     NewFeedService(posts, users, cleaner, zerolog.Nop()),
		posts:   posts,
		users:   users,
		cleaner: cleaner,
		viewer:  ports.Viewer{Authenticated: true, UserID: owner.ID},
	}
}

func TestFeedService_CreatePost_AppendsToCreator(t *testing.T) {
	f := newFeedFixture(t)

	post, err := f.svc.CreatePost(context.Background(), f.viewer, ports.PostInput{
		Title:   "Hello world",
		Content: "First post content",
	})
	if err != nil {
		t.Fatalf("CreatePost returned error: %v", err)
	}

	owner, _ := f.users.FindByID(context.Background(), f.viewer.UserID)
	count := 0
	for _, id := range owner.Posts {
		if id == post.ID {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected post id appended exactly once, found %d times", count)
	}
	if post.Creator == nil || post.Creator.ID != f.viewer.UserID {
		t.Fatalf("expected creator populated, got %+v", post.Creator)
	}
}

func TestFeedService_CreatePost_Unauthenticated(t *testing.T) {
	f := newFeedFixture(t)

	_, err := f.svc.CreatePost(context.Background(), ports.Viewer{}, ports.PostInput{Title: "Hello world", Content: "Some content"})
	if ae := apiError(t, err); ae.Status != 401 {
		t.Fatalf("expected 401, got %d", ae.Status)
	}
}

func TestFeedService_CreatePost_CollectsAllProblems(t *testing.T) {
	f := newFeedFixture(t)

	_, err := f.svc.CreatePost(context.Background(), f.viewer, ports.PostInput{Title: "abc", Content: "de"})
	ae := apiError(t, err)
	if ae.Status != 422 {
		t.Fatalf("expected 422, got %d", ae.Status)
	}
	if len(ae.Data) != 2 {
		t.Fatalf("expected title and content problems, got %v", ae.Data)
	}
}

func TestFeedService_CreatePost_CreatorVanished(t *testing.T) {
	f := newFeedFixture(t)

	_, err := f.svc.CreatePost(context.Background(), ports.Viewer{Authenticated: true, UserID: "gone"}, ports.PostInput{Title: "Hello world", Content: "Some content"})
	if ae := apiError(t, err); ae.Status != 401 {
		t.Fatalf("expected 401 for vanished creator, got %d", ae.Status)
	}
}

func TestFeedService_GetPosts_Pagination(t *testing.T) {
	f := newFeedFixture(t)

	for i := 1; i <= 5; i++ {
		if _, err := f.svc.CreatePost(context.Background(), f.viewer, ports.PostInput{
			Title:   fmt.Sprintf("Post number %d", i),
			Content: fmt.Sprintf("Content number %d", i),
		}); err != nil {
			t.Fatalf("seed post %d: %v", i, err)
		}
	}

	page1, err := f.svc.GetPosts(context.Background(), f.viewer, 1)
	if err != nil {
		t.Fatalf("GetPosts failed: %v", err)
	}
	if page1.TotalItems != 5 {
		t.Fatalf("expected totalItems 5, got %d", page1.TotalItems)
	}
	if len(page1.Posts) != 2 {
		t.Fatalf("expected 2 posts on page 1, got %d", len(page1.Posts))
	}
	if page1.Posts[0].Title != "Post number 5" || page1.Posts[1].Title != "Post number 4" {
		t.Fatalf("expected newest posts first, got %q then %q", page1.Posts[0].Title, page1.Posts[1].Title)
	}

	page3, err := f.svc.GetPosts(context.Background(), f.viewer, 3)
	if err != nil {
		t.Fatalf("GetPosts page 3 failed: %v", err)
	}
	if len(page3.Posts) != 1 {
		t.Fatalf("expected 1 post on page 3, got %d", len(page3.Posts))
	}

	// page 0 and missing page behave as page 1
	defaulted, err := f.svc.GetPosts(context.Background(), f.viewer, 0)
	if err != nil {
		t.Fatalf("GetPosts page 0 failed: %v", err)
	}
	if len(defaulted.Posts) != 2 || defaulted.Posts[0].Title != "Post number 5" {
		t.Fatalf("expected page 0 to behave as page 1")
	}
}

func TestFeedService_GetPosts_Unauthenticated(t *testing.T) {
	f := newFeedFixture(t)

	_, err := f.svc.GetPosts(context.Background(), ports.Viewer{}, 1)
	if ae := apiError(t, err); ae.Status != 401 {
		t.Fatalf("expected 401, got %d", ae.Status)
	}
}

func TestFeedService_GetPost_Idempotent(t *testing.T) {
	f := newFeedFixture(t)

	created, err := f.svc.CreatePost(context.Background(), f.viewer, ports.PostInput{Title: "Hello world", Content: "Some content"})
	if err != nil {
		t.Fatalf("seed post: %v", err)
	}

	first, err := f.svc.GetPost(context.Background(), f.viewer, created.ID)
	if err != nil {
		t.Fatalf("first GetPost failed: %v", err)
	}
	second, err := f.svc.GetPost(context.Background(), f.viewer, created.ID)
	if err != nil {
		t.Fatalf("second GetPost failed: %v", err)
	}

	if first.Title != second.Title || first.Content != second.Content || !first.CreatedAt.Equal(second.CreatedAt) {
		t.Fatalf("repeated reads differ: %+v vs %+v", first, second)
	}
	if len(f.cleaner.calls) != 0 {
		t.Fatalf("reads must not trigger cleanup, got %v", f.cleaner.calls)
	}
}

func TestFeedService_GetPost_NotFound(t *testing.T) {
	f := newFeedFixture(t)

	_, err := f.svc.GetPost(context.Background(), f.viewer, "missing")
	if ae := apiError(t, err); ae.Status != 404 {
		t.Fatalf("expected 404, got %d", ae.Status)
	}
}

func TestFeedService_UpdatePost_NonCreatorForbidden(t *testing.T) {
	f := newFeedFixture(t)

	created, err := f.svc.CreatePost(context.Background(), f.viewer, ports.PostInput{Title: "Hello world", Content: "Some content"})
	if err != nil {
		t.Fatalf("seed post: %v", err)
	}

	other, err := f.users.Create(context.Background(), &domain.User{Name: "Mallory", Email: "mallory@example.com", PasswordHash: "x"})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	_, err = f.svc.UpdatePost(context.Background(), ports.Viewer{Authenticated: true, UserID: other.ID}, created.ID, ports.PostInput{
		Title:   "Hijacked title",
		Content: "Hijacked content",
	})
	if ae := apiError(t, err); ae.Status != 403 {
		t.Fatalf("expected 403, got %d", ae.Status)
	}

	unchanged, _ := f.svc.GetPost(context.Background(), f.viewer, created.ID)
	if unchanged.Title != "Hello world" || unchanged.Content != "Some content" {
		t.Fatalf("post mutated by forbidden update: %+v", unchanged)
	}
}

func TestFeedService_UpdatePost_ImageSentinel(t *testing.T) {
	f := newFeedFixture(t)

	created, err := f.svc.CreatePost(context.Background(), f.viewer, ports.PostInput{
		Title:    "Hello world",
		Content:  "Some content",
		ImageURL: "images/original.png",
	})
	if err != nil {
		t.Fatalf("seed post: %v", err)
	}

	kept, err := f.svc.UpdatePost(context.Background(), f.viewer, created.ID, ports.PostInput{
		Title:    "Fresh title",
		Content:  "Fresh content",
		ImageURL: "undefined",
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if kept.ImageURL != "images/original.png" {
		t.Fatalf("sentinel must keep stored image, got %q", kept.ImageURL)
	}

	replaced, err := f.svc.UpdatePost(context.Background(), f.viewer, created.ID, ports.PostInput{
		Title:    "Fresh title",
		Content:  "Fresh content",
		ImageURL: "images/new.png",
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if replaced.ImageURL != "images/new.png" {
		t.Fatalf("expected image replaced, got %q", replaced.ImageURL)
	}
}

func TestFeedService_DeletePost(t *testing.T) {
	f := newFeedFixture(t)

	created, err := f.svc.CreatePost(context.Background(), f.viewer, ports.PostInput{
		Title:    "Hello world",
		Content:  "Some content",
		ImageURL: "images/pic.png",
	})
	if err != nil {
		t.Fatalf("seed post: %v", err)
	}
	keeper, err := f.svc.CreatePost(context.Background(), f.viewer, ports.PostInput{Title: "Other post", Content: "Other content"})
	if err != nil {
		t.Fatalf("seed post: %v", err)
	}

	if err := f.svc.DeletePost(context.Background(), f.viewer, created.ID); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}

	owner, _ := f.users.FindByID(context.Background(), f.viewer.UserID)
	if len(owner.Posts) != 1 || owner.Posts[0] != keeper.ID {
		t.Fatalf("expected only %s left in creator list, got %v", keeper.ID, owner.Posts)
	}

	if len(f.cleaner.calls) != 1 || f.cleaner.calls[0] != "images/pic.png" {
		t.Fatalf("expected exactly one cleanup call with the post image, got %v", f.cleaner.calls)
	}

	_, err = f.svc.GetPost(context.Background(), f.viewer, created.ID)
	if ae := apiError(t, err); ae.Status != 404 {
		t.Fatalf("expected deleted post to be gone, got %d", ae.Status)
	}
}

func TestFeedService_DeletePost_NonCreatorForbidden(t *testing.T) {
	f := newFeedFixture(t)

	created, err := f.svc.CreatePost(context.Background(), f.viewer, ports.PostInput{Title: "Hello world", Content: "Some content"})
	if err != nil {
		t.Fatalf("seed post: %v", err)
	}

	other, err := f.users.Create(context.Background(), &domain.User{Name: "Trudy", Email: "trudy@example.com", PasswordHash: "x"})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	err = f.svc.DeletePost(context.Background(), ports.Viewer{Authenticated: true, UserID: other.ID}, created.ID)
	if ae := apiError(t, err); ae.Status != 403 {
		t.Fatalf("expected 403, got %d", ae.Status)
	}
	if len(f.cleaner.calls) != 0 {
		t.Fatalf("forbidden delete must not trigger cleanup, got %v", f.cleaner.calls)
	}
}
