package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/feedboard/social-api/internal/api/metrics"
	"github.com/feedboard/social-api/internal/api/middleware"
	"github.com/feedboard/social-api/internal/core/ports"
)

// GraphQLHandler exposes every resolver operation through a single
// query/mutation endpoint. The auth gate has already annotated the request
// context; each operation enforces its own authentication rule.
type GraphQLHandler struct {
	accounts ports.AccountService
	feed     ports.FeedService
}

func NewGraphQLHandler(accounts ports.AccountService, feed ports.FeedService) *GraphQLHandler {
	return &GraphQLHandler{accounts: accounts, feed: feed}
}

// Execute dispatches the named operation.
//
// @Summary      Execute a query/mutation operation
// @Tags         graphql
// @Accept       json
// @Produce      json
// @Param        body  body      operationRequest  true  "Operation name plus arguments"
// @Success      200   {object}  dataEnvelope
// @Failure      401   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Failure      422   {object}  map[string]any
// @Router       /graphql [post]
func (h *GraphQLHandler) Execute(c echo.Context) error {
	var req operationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	start := time.Now()
	result, err := h.dispatch(c, req)
	metrics.OperationDuration.WithLabelValues(req.Operation).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.OperationsTotal.WithLabelValues(req.Operation, "error").Inc()
		return err
	}

	metrics.OperationsTotal.WithLabelValues(req.Operation, "ok").Inc()
	return c.JSON(http.StatusOK, dataEnvelope{Data: result})
}

func (h *GraphQLHandler) dispatch(c echo.Context, req operationRequest) (any, error) {
	ctx := c.Request().Context()
	viewer := middleware.ViewerFrom(c)

	switch req.Operation {
	case "createUser":
		var in userInputPayload
		if req.UserInput != nil {
			in = *req.UserInput
		}
		user, err := h.accounts.CreateUser(ctx, ports.SignupInput{
			Name:     in.Name,
			Email:    in.Email,
			Password: in.Password,
		})
		if err != nil {
			return nil, err
		}
		return toUserResponse(user), nil

	case "login":
		res, err := h.accounts.Login(ctx, req.Email, req.Password)
		if err != nil {
			return nil, err
		}
		return loginResponse{Token: res.Token, UserID: res.UserID}, nil

	case "createPost":
		var in postInputPayload
		if req.PostInput != nil {
			in = *req.PostInput
		}
		post, err := h.feed.CreatePost(ctx, viewer, ports.PostInput{
			Title:    in.Title,
			Content:  in.Content,
			ImageURL: in.ImageURL,
		})
		if err != nil {
			return nil, err
		}
		return toPostResponse(post), nil

	case "getPosts":
		page, err := h.feed.GetPosts(ctx, viewer, req.Page)
		if err != nil {
			return nil, err
		}
		out := make([]postResponse, 0, len(page.Posts))
		for _, p := range page.Posts {
			out = append(out, toPostResponse(p))
		}
		return feedResponse{Posts: out, TotalItems: page.TotalItems}, nil

	case "getPost":
		post, err := h.feed.GetPost(ctx, viewer, req.PostID)
		if err != nil {
			return nil, err
		}
		return toPostResponse(post), nil

	case "updatePost":
		var in postInputPayload
		if req.PostInput != nil {
			in = *req.PostInput
		}
		post, err := h.feed.UpdatePost(ctx, viewer, req.PostID, ports.PostInput{
			Title:    in.Title,
			Content:  in.Content,
			ImageURL: in.ImageURL,
		})
		if err != nil {
			return nil, err
		}
		return toPostResponse(post), nil

	case "deletePost":
		if err := h.feed.DeletePost(ctx, viewer, req.PostID); err != nil {
			return nil, err
		}
		return true, nil

	case "getUser":
		user, err := h.accounts.GetUser(ctx, viewer)
		if err != nil {
			return nil, err
		}
		return toUserResponse(user), nil

	case "updateStatus":
		if err := h.accounts.UpdateStatus(ctx, viewer, req.Status); err != nil {
			return nil, err
		}
		return true, nil

	default:
		return nil, echo.NewHTTPError(http.StatusBadRequest, "unknown operation")
	}
}
