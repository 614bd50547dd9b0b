package authcheck

import (
	"fmt"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RegisterAuthRoutes mounts the JSON auth API on the given router.
// Deletion requires a bearer token whose identity holds the Admin role.
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) {

	controller := NewAuthController(opts...)

	app.Post(controller.Routes.Register, controller.RegisterPost).
		SetName("register.post")

	app.Post(controller.Routes.Login, controller.LoginPost).
		SetName("login.post")

	app.Post(controller.Routes.ChangePassword, controller.ChangePasswordPost).
		SetName("change-password.post")

	app.Delete(fmt.Sprintf("%s/:username", controller.Routes.Users),
		controller.RequireRole(RoleAdmin, controller.DeleteUser)).
		SetName("users.delete")
}

type AuthControllerRoutes struct {
	Register       string
	Login          string
	ChangePassword string
	Users          string
}

type AuthController struct {
	Debug        bool
	Logger       Logger
	Repo         RepositoryManager
	Auther       Authenticator
	Authorizer   *RoleAuthorizer
	Routes       *AuthControllerRoutes
	ErrorHandler func(c router.Context, err error) error
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Register:       "/register",
			Login:          "/login",
			ChangePassword: "/change-password",
			Users:          "/users",
		},
	}

	c.ErrorHandler = c.defaultErrHandler

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in auth controller...")
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	if c.Authorizer == nil {
		c.Authorizer = NewRoleAuthorizer(c.Repo.Users())
	}

	return c
}

func WithControllerRepo(repo RepositoryManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Repo = repo
		return c
	}
}

func WithControllerAuthenticator(auther Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithControllerAuthorizer(authorizer *RoleAuthorizer) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Authorizer = authorizer
		return c
	}
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

// LoginRequest payload
type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Username,
			validation.Required,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

func (a *AuthController) RegisterPost(ctx router.Context) error {
	payload := new(RegisterUserMessage)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register user parse payload", "error", err)
		return ctx.JSON(http.StatusBadRequest, router.ViewContext{
			"error": "failed to parse request body",
		})
	}

	if a.Debug {
		fmt.Println("======= AUTH REGISTER ===")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=========================")
	}

	handler := NewRegisterUserHandler(a.Repo).WithLogger(a.Logger)
	if err := handler.Execute(ctx.Context(), *payload); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, router.ViewContext{
		"message": "User registered successfully.",
	})
}

func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload", "error", err)
		return ctx.JSON(http.StatusBadRequest, router.ViewContext{
			"error": "failed to parse request body",
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(http.StatusBadRequest, router.ViewContext{
			"error": err.Error(),
		})
	}

	token, err := a.Auther.Login(ctx.Context(), payload.Username, payload.Password)
	if err != nil {
		// A single message for every credential failure
		return ctx.JSON(http.StatusUnauthorized, router.ViewContext{
			"error": ErrMismatchedHashAndPassword.Message,
		})
	}

	return ctx.JSON(http.StatusOK, router.ViewContext{
		"token": token,
	})
}

func (a *AuthController) ChangePasswordPost(ctx router.Context) error {
	payload := new(ChangePasswordMessage)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("change password parse payload", "error", err)
		return ctx.JSON(http.StatusBadRequest, router.ViewContext{
			"error": "failed to parse request body",
		})
	}

	handler := NewChangePasswordHandler(a.Repo).WithLogger(a.Logger)
	if err := handler.Execute(ctx.Context(), *payload); err != nil {
		// Unknown usernames come back as unauthorized, not as not-found
		var richErr *errors.Error
		if errors.As(err, &richErr) && richErr.Category == errors.CategoryNotFound {
			return ctx.JSON(http.StatusUnauthorized, router.ViewContext{
				"error": "User not found.",
			})
		}
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, router.ViewContext{
		"message": "Password changed successfully.",
	})
}

func (a *AuthController) DeleteUser(ctx router.Context) error {
	username := ctx.Param("username", "")
	if username == "" {
		return ctx.JSON(http.StatusBadRequest, router.ViewContext{
			"error": "username is required",
		})
	}

	acting, _ := ctx.Get("identity", nil).(Identity)

	msg := DeleteUserMessage{
		Username: username,
	}
	if acting != nil {
		msg.ActingUsername = acting.Username()
	}

	handler := NewDeleteUserHandler(a.Repo).WithLogger(a.Logger)
	if err := handler.Execute(ctx.Context(), msg); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, router.ViewContext{
		"message": fmt.Sprintf("User %s deleted successfully.", username),
	})
}

// RequireRole wraps a handler with bearer-token verification and a role
// check. The role decision re-reads the store, so revoked memberships take
// effect on the next request.
func (a *AuthController) RequireRole(role string, next router.HandlerFunc) router.HandlerFunc {
	return func(ctx router.Context) error {
		raw := bearerToken(ctx.Header(router.HeaderAuthorization))
		if raw == "" {
			return ctx.JSON(http.StatusUnauthorized, router.ViewContext{
				"error": "missing bearer token",
			})
		}

		identity, err := a.Auther.Verify(raw)
		if err != nil {
			a.Logger.Info("token verification failed", "error", err)

			richErr := ErrTokenMalformed
			if IsTokenExpiredError(err) {
				richErr = ErrTokenExpired
			}

			return ctx.JSON(http.StatusUnauthorized, router.ViewContext{
				"error": richErr.Message,
			})
		}

		decision, err := a.Authorizer.Authorize(ctx.Context(), identity, role)
		if err != nil {
			return a.ErrorHandler(ctx, err)
		}

		if !decision.Allowed {
			return ctx.JSON(http.StatusForbidden, router.ViewContext{
				"error": decision.Reason,
			})
		}

		ctx.Set("identity", identity)

		return next(ctx)
	}
}

func (a *AuthController) defaultErrHandler(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	a.Logger.Info(
		"Controller error handler",
		"error", richErr.Message,
		"category", richErr.Category,
		"details", print.MaybePrettyJSON(richErr.Metadata),
	)

	status := http.StatusInternalServerError
	switch richErr.Category {
	case errors.CategoryValidation, errors.CategoryBadInput:
		status = http.StatusBadRequest
	case errors.CategoryAuth:
		status = http.StatusUnauthorized
	case errors.CategoryAuthz:
		status = http.StatusForbidden
	case errors.CategoryNotFound:
		status = http.StatusNotFound
	case errors.CategoryConflict:
		status = http.StatusConflict
	}

	return c.JSON(status, router.ViewContext{
		"error": richErr.Message,
		"code":  richErr.TextCode,
	})
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
