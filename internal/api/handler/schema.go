package handler

import (
	"time"

	"github.com/feedboard/social-api/internal/core/domain"
)

// Wire types for the query/mutation endpoint. Every returned record is the
// stored record with ids and timestamps coerced to canonical strings.

type userInputPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type postInputPayload struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
}

// operationRequest is the body of POST /graphql: an operation name plus the
// argument payload for that operation, all other fields ignored.
type operationRequest struct {
	Operation string            `json:"operation"`
	UserInput *userInputPayload `json:"userInput,omitempty"`
	PostInput *postInputPayload `json:"postInput,omitempty"`
	Email     string            `json:"email,omitempty"`
	Password  string            `json:"password,omitempty"`
	Page      int               `json:"page,omitempty"`
	PostID    string            `json:"postId,omitempty"`
	Status    string            `json:"status,omitempty"`
}

type dataEnvelope struct {
	Data any `json:"data"`
}

type userResponse struct {
	ID     string   `json:"_id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Status string   `json:"status"`
	Posts  []string `json:"posts"`
}

type loginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

type postResponse struct {
	ID        string        `json:"_id"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	ImageURL  string        `json:"imageUrl"`
	Creator   *userResponse `json:"creator,omitempty"`
	CreatedAt string        `json:"createdAt"`
	UpdatedAt string        `json:"updatedAt"`
}

type feedResponse struct {
	Posts      []postResponse `json:"posts"`
	TotalItems int64          `json:"totalItems"`
}

func toUserResponse(u *domain.User) *userResponse {
	if u == nil {
		return nil
	}
	posts := u.Posts
	if posts == nil {
		posts = []string{}
	}
	return &userResponse{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Status: u.Status,
		Posts:  posts,
	}
}

func toPostResponse(p *domain.Post) postResponse {
	return postResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		ImageURL:  p.ImageURL,
		Creator:   toUserResponse(p.Creator),
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
