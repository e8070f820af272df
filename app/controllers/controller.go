// Package controllers turns HTTP requests into repository calls and answers
// with the response envelope. Each controller mounts its own routes.
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/kashvishop/storefront/app/repositories"
	"github.com/kashvishop/storefront/pkg/ctx"
	"github.com/kashvishop/storefront/pkg/orm"
	"github.com/kashvishop/storefront/pkg/response"
)

const errorView = "ErrorView"

// fail maps err onto a status. Unexpected errors are logged and answered with
// "Error while <action>" so the cause stays server-side.
func fail(c *ctx.Context, err error, notFound, action string) {
	switch {
	case errors.Is(err, orm.ErrNotFound):
		c.FailView(http.StatusNotFound, notFound, errorView)

	case errors.Is(err, repositories.ErrInvalidCredentials):
		c.Fail(http.StatusUnauthorized, err.Error())

	case errors.Is(err, repositories.ErrDuplicateEmail),
		errors.Is(err, repositories.ErrDuplicateCategory),
		errors.Is(err, repositories.ErrEmptyCart),
		errors.Is(err, repositories.ErrAddressInUse),
		errors.Is(err, repositories.ErrInvalidQuantity):
		c.FailView(http.StatusBadRequest, err.Error(), errorView)

	default:
		msg := "Error while " + action
		c.Log().Error(msg, "error", err)
		c.Send(response.Response{
			StatusCode: http.StatusInternalServerError,
			Message:    msg,
			Template:   errorView,
			Payload:    response.Payload{"error": msg},
		})
	}
}

// id reads the :id parameter, answering 400 "Invalid ID" when it is malformed.
func id(c *ctx.Context) (uint, bool) {
	n, err := c.ID()
	if err != nil {
		c.Send(response.Response{
			StatusCode: http.StatusBadRequest,
			Message:    err.Error(),
			Template:   errorView,
			Payload:    response.Payload{"error": err.Error()},
		})
		return 0, false
	}
	return n, true
}

// queryID parses an optional numeric query parameter. ok is false when the
// parameter is present but malformed; a 400 has then been sent.
func queryID(c *ctx.Context, key string) (n uint, present, ok bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, false, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		c.FailView(http.StatusBadRequest, "Invalid "+key, errorView)
		return 0, true, false
	}
	return uint(v), true, true
}

// loggedIn returns the session's customer id, if any.
func loggedIn(c *ctx.Context) (uint, bool) {
	return c.Session().UserID()
}

func path(prefix string, id uint) string {
	return prefix + "/" + strconv.FormatUint(uint64(id), 10)
}
