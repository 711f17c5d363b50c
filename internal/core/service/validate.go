package service

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/feedboard/social-api/internal/core/domain"
)

var validate = validator.New()

// Validation inputs. Field validators run independently; every failing field
// contributes one problem so callers see all issues at once.
type signupRules struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

type postRules struct {
	Title   string `validate:"required,min=5"`
	Content string `validate:"required,min=5"`
}

// fieldMessages maps a failing struct field to its wire-visible message.
var fieldMessages = map[string]string{
	"Email":    "Email is invalid",
	"Password": "Password too short",
	"Title":    "Title invalid",
	"Content":  "Content invalid",
}

func checkSignup(in signupRules) []domain.FieldProblem {
	return problems(validate.Struct(in))
}

func checkPost(in postRules) []domain.FieldProblem {
	return problems(validate.Struct(in))
}

func problems(err error) []domain.FieldProblem {
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []domain.FieldProblem{{Message: err.Error()}}
	}

	out := make([]domain.FieldProblem, 0, len(ve))
	for _, fe := range ve {
		msg, ok := fieldMessages[fe.Field()]
		if !ok {
			msg = fe.Field() + " failed validation (" + fe.Tag() + ")"
		}
		out = append(out, domain.FieldProblem{Message: msg})
	}
	return out
}
