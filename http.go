package bankgate

import (
	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RouteRegistrar captures the router methods the controllers use.
type RouteRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Put(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Patch(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

// ErrorHandler renders an error to the client.
type ErrorHandler func(c router.Context, err error) error

// NewJSONErrorHandler builds the API error renderer. Validation failures map
// to a 400 with a per-field map; rich errors carry their own status code and
// sanitized body; anything else becomes an opaque 500.
func NewJSONErrorHandler(logger Logger) ErrorHandler {
	if logger == nil {
		logger = defLogger{}
	}

	return func(c router.Context, err error) error {
		var verr validation.Errors
		if goerrors.As(err, &verr) {
			return c.JSON(router.StatusBadRequest, map[string]any{
				"error": map[string]any{
					"message":    "Validation failed",
					"text_code":  TextCodeValidationFailed,
					"validation": verr,
				},
			})
		}

		var richErr *goerrors.Error
		if !goerrors.As(err, &richErr) {
			richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "An unexpected server error occurred").
				WithCode(goerrors.CodeInternal)
		}

		logger.Info(
			"request error",
			"error", richErr.Message,
			"category", richErr.Category,
			"path", c.OriginalURL(),
			"details", print.MaybePrettyJSON(richErr.Metadata),
		)

		status := richErr.Code
		if status < 400 || status > 599 {
			status = router.StatusInternalServerError
		}

		body := map[string]any{
			"message":   richErr.Message,
			"text_code": richErr.TextCode,
		}
		if status >= 500 {
			body["message"] = "An unexpected server error occurred"
		}

		return c.JSON(status, map[string]any{"error": body})
	}
}

// RegisterRoutes mounts the whole HTTP surface: public authentication routes,
// the regular-account routes and the agent back office, each behind the guard
// policy its account surface requires.
func RegisterRoutes(app RouteRegistrar, guard *AccessGuard, auth *AuthController, users *UserController, agents *AgentController) {
	auth.RegisterRoutes(app, guard)
	users.RegisterRoutes(app, guard)
	agents.RegisterRoutes(app, guard)
}

func wrapHandler(h router.HandlerFunc, errorHandler ErrorHandler) router.HandlerFunc {
	return func(c router.Context) error {
		if err := h(c); err != nil {
			return errorHandler(c, err)
		}
		return nil
	}
}
