package controllers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/kashvishop/storefront/app/repositories"
	"github.com/kashvishop/storefront/pkg/bind"
	"github.com/kashvishop/storefront/pkg/crypt"
	"github.com/kashvishop/storefront/pkg/ctx"
	"github.com/kashvishop/storefront/pkg/response"
	"github.com/kashvishop/storefront/pkg/router"
	"github.com/kashvishop/storefront/pkg/session"
)

// rememberCookie holds the encrypted email of a customer who ticked
// "remember me"; the login form is prefilled from it.
const rememberCookie = "email"

const rememberFor = 30 * 24 * time.Hour

type loginInput struct {
	Email    string `json:"email"    validate:"required" msg:"Email is required."`
	Password string `json:"password" validate:"required" msg:"Password is required."`
	Remember bool   `json:"remember"`
}

type AuthController struct {
	customers  *repositories.CustomerRepository
	categories *repositories.CategoryRepository
	register   *CustomerController
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{
		customers:  repositories.NewCustomerRepository(db),
		categories: repositories.NewCategoryRepository(db),
		register:   NewCustomerController(db),
	}
}

func (ac *AuthController) RegisterRoutes(r *router.Router) {
	r.Get("/register", "auth.register", ctx.Wrap(ac.RegistrationForm))
	r.Post("/register", "auth.register.store", ctx.Wrap(ac.register.Create))
	r.Get("/login", "auth.login", ctx.Wrap(ac.LoginForm))
	r.Post("/login", "auth.login.store", ctx.Wrap(ac.Login))
	r.Get("/logout", "auth.logout", ctx.Wrap(ac.Logout))
}

// RegistrationForm echoes ?error= or ?success= back to the view.
func (ac *AuthController) RegistrationForm(c *ctx.Context) {
	message := c.Query("error")
	if message == "" {
		message = c.Query("success")
	}

	categories, err := ac.categories.ReadAll(c.Context(), nil)
	if err != nil {
		fail(c, err, "", "loading registration form")
		return
	}

	c.Send(response.Response{
		StatusCode: http.StatusOK,
		Message:    message,
		Template:   "Register",
		Payload:    response.Payload{"message": message, "categories": categories},
	})
}

// LoginForm prefills the remembered email. A ?error= from a failed login is
// shown with a 400.
func (ac *AuthController) LoginForm(c *ctx.Context) {
	if msg := c.Query("error"); msg != "" {
		c.Send(response.Response{
			StatusCode: http.StatusBadRequest,
			Message:    "Login form",
			Template:   "LoginFormView",
			Payload:    response.Payload{"title": "Login", "message": msg + "."},
		})
		return
	}

	c.Send(response.Response{
		StatusCode: http.StatusOK,
		Message:    "Login form",
		Template:   "LoginFormView",
		Payload:    response.Payload{"title": "Login", "email": ac.rememberedEmail(c)},
	})
}

// Login checks the credentials and marks the session as logged in.
func (ac *AuthController) Login(c *ctx.Context) {
	var in loginInput
	errs, order, err := bind.Request(c.R, &in)
	if err == nil && len(errs) > 0 {
		err = errors.New(errs.First(order))
	}
	if err != nil {
		ac.loginFailed(c, http.StatusBadRequest, err.Error())
		return
	}

	customer, err := ac.customers.Login(c.Context(), in.Email, in.Password)
	if errors.Is(err, repositories.ErrInvalidCredentials) {
		c.Log().Info("login failed", "email", in.Email)
		ac.loginFailed(c, http.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		fail(c, err, "", "logging in")
		return
	}

	sess := c.Session()
	sess.Set(session.KeyUserID, customer.ID)
	sess.Set(session.KeyIsLoggedIn, true)

	if in.Remember {
		sess.Set(session.KeyEmail, customer.Email)
		ac.remember(c, customer.Email)
	}

	c.Send(response.Response{
		StatusCode: http.StatusOK,
		Message:    "Logged in successfully!",
		Redirect:   "/products",
		Payload:    response.Payload{"customer": customer, "isLoggedIn": true},
	})
}

// Logout destroys the session; the remembered email survives.
func (ac *AuthController) Logout(c *ctx.Context) {
	c.Session().Destroy()
	c.Send(response.Response{
		StatusCode: http.StatusOK,
		Message:    "Logged out successfully",
		Redirect:   "/",
	})
}

func (ac *AuthController) loginFailed(c *ctx.Context, status int, msg string) {
	c.Send(response.Response{
		StatusCode: status,
		Message:    msg,
		Redirect:   "/login?error=" + url.QueryEscape(strings.TrimSuffix(msg, ".")),
	})
}

func (ac *AuthController) remember(c *ctx.Context, email string) {
	sealed, err := crypt.Encrypt(email)
	if err != nil {
		c.Log().Warn("remember-me cookie not set", "error", err)
		return
	}
	http.SetCookie(c.W, &http.Cookie{
		Name:     rememberCookie,
		Value:    sealed,
		Path:     "/",
		MaxAge:   int(rememberFor.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (ac *AuthController) rememberedEmail(c *ctx.Context) string {
	sealed, err := c.Cookie(rememberCookie)
	if err != nil {
		return ""
	}
	email, err := crypt.Decrypt(sealed)
	if err != nil {
		return ""
	}
	return email
}
