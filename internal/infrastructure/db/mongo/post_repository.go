package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/feedboard/social-api/internal/core/domain"
)

const postsCollection = "posts"

// PostRepository persists posts and resolves each post's creator with an
// explicit lookup against the users collection. Posts reference their creator
// by id only; no object graph is embedded.
type PostRepository struct {
	posts *mongo.Collection
	users *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{
		posts: db.Collection(postsCollection),
		users: db.Collection(usersCollection),
	}
}

type postDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	ImageURL  string             `bson:"image_url"`
	Creator   primitive.ObjectID `bson:"creator"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d *postDoc) toDomain() *domain.Post {
	return &domain.Post{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Content:   d.Content,
		ImageURL:  d.ImageURL,
		CreatorID: d.Creator.Hex(),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	creator, err := primitive.ObjectIDFromHex(post.CreatorID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	now := time.Now().UTC()
	doc := postDoc{
		Title:     post.Title,
		Content:   post.Content,
		ImageURL:  post.ImageURL,
		Creator:   creator,
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, err := r.posts.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}

	var doc postDoc
	if err := r.posts.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}

	post := doc.toDomain()
	if err := r.populateCreators(ctx, []*domain.Post{post}); err != nil {
		return nil, err
	}
	return post, nil
}

// List returns one page of posts, newest first, plus the total count.
func (r *PostRepository) List(ctx context.Context, page, perPage int) ([]*domain.Post, int64, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	total, err := r.posts.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * perPage)).
		SetLimit(int64(perPage))

	cur, err := r.posts.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Post
	for cur.Next(ctx) {
		var doc postDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode post: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}

	if err := r.populateCreators(ctx, out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PostRepository) Update(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(post.ID)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}

	now := time.Now().UTC()
	res, err := r.posts.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"title":      post.Title,
		"content":    post.Content,
		"image_url":  post.ImageURL,
		"updated_at": now,
	}})
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrPostNotFound
	}

	updated := *post
	updated.UpdatedAt = now
	if err := r.populateCreators(ctx, []*domain.Post{&updated}); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPostNotFound
	}

	res, err := r.posts.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

// populateCreators resolves the creators of the given posts in a single
// query on the users collection and attaches them.
func (r *PostRepository) populateCreators(ctx context.Context, posts []*domain.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]primitive.ObjectID, 0, len(posts))
	seen := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.CreatorID]; ok {
			continue
		}
		seen[p.CreatorID] = struct{}{}

		oid, err := primitive.ObjectIDFromHex(p.CreatorID)
		if err != nil {
			continue
		}
		ids = append(ids, oid)
	}

	cur, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return fmt.Errorf("populate creators: %w", err)
	}
	defer cur.Close(ctx)

	byID := make(map[string]*domain.User, len(ids))
	for cur.Next(ctx) {
		var doc userDoc
		if err := cur.Decode(&doc); err != nil {
			return fmt.Errorf("decode creator: %w", err)
		}
		byID[doc.ID.Hex()] = doc.toDomain()
	}
	if err := cur.Err(); err != nil {
		return fmt.Errorf("populate creators: %w", err)
	}

	for _, p := range posts {
		p.Creator = byID[p.CreatorID]
	}
	return nil
}

// EnsureIndexes creates the indexes backing the feed sort and the creator lookups.
func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "creator", Value: 1}}},
	}

	_, err := r.posts.Indexes().CreateMany(ctx, indexes)
	return err
}
