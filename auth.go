package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SessionKeyUserID is the session key holding the signed-in user's ID.
const SessionKeyUserID = "user_id"

type contextKey string

const ctxKeyUser contextKey = "current_user"

// capability names an action a route may demand of the session user.
type capability int

const (
	capSignedIn capability = iota
	capManagePosts
)

// Can reports whether the user holds the capability.
func (u User) Can(c capability) bool {
	switch c {
	case capSignedIn:
		return true
	case capManagePosts:
		return u.IsAdmin()
	}
	return false
}

// require builds a middleware enforcing the route's capability set.
// Anonymous requests are sent to the login form; authenticated requests
// missing a capability get a 403.
func (app *App) require(caps ...capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := app.currentUser(r)
			if user == nil {
				app.flashAndRedirect(w, r, "/login", "Please log in first", "info")
				return
			}
			for _, c := range caps {
				if !user.Can(c) {
					http.Error(w, "Forbidden", http.StatusForbidden)
					return
				}
			}
			ctx := context.WithValue(r.Context(), ctxKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// currentUser resolves the signed-in user, preferring one already placed on
// the request context by the require middleware. Returns nil for anonymous
// sessions.
func (app *App) currentUser(r *http.Request) *User {
	if user, ok := r.Context().Value(ctxKeyUser).(*User); ok {
		return user
	}

	id := app.sessions.GetInt64(r.Context(), SessionKeyUserID)
	if id <= 0 {
		return nil
	}
	var user User
	if err := app.db.First(&user, id).Error; err != nil {
		return nil
	}
	return &user
}

// signIn establishes a fresh session for the user. The token is renewed to
// prevent session fixation.
func (app *App) signIn(r *http.Request, user *User) error {
	if err := app.sessions.RenewToken(r.Context()); err != nil {
		return err
	}
	app.sessions.Put(r.Context(), SessionKeyUserID, int64(user.ID))
	return nil
}

func (app *App) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if app.currentUser(r) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	app.render(w, r, "register", nil)
}

func (app *App) Register(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	name := strings.TrimSpace(r.FormValue("name"))

	if email == "" || password == "" {
		app.flashAndRedirect(w, r, "/register", "Email and password are required", "error")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Error creating account", http.StatusInternalServerError)
		return
	}

	// The first account ever created becomes the administrator. Counting and
	// creating happen in one transaction so the bootstrap can't be raced.
	user := User{Email: email, PasswordHash: string(hash), Name: name}
	err = app.db.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&User{}).Count(&existing).Error; err != nil {
			return err
		}
		user.Role = RoleReader
		if existing == 0 {
			user.Role = RoleAdmin
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			app.flashAndRedirect(w, r, "/login", "Email already exists, please login with that email", "info")
			return
		}
		log.Printf("WARN: failed to create account: %v", err)
		http.Error(w, "Error creating account", http.StatusInternalServerError)
		return
	}

	if err := app.signIn(r, &user); err != nil {
		http.Error(w, "Error establishing session", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (app *App) LoginForm(w http.ResponseWriter, r *http.Request) {
	if app.currentUser(r) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	app.render(w, r, "login", nil)
}

func (app *App) Login(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	var user User
	if err := app.db.Where("email = ?", email).First(&user).Error; err != nil {
		app.flashAndRedirect(w, r, "/login", "Email does not exist, please try again", "error")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		app.flashAndRedirect(w, r, "/login", "Incorrect password, try again", "error")
		return
	}

	if err := app.signIn(r, &user); err != nil {
		http.Error(w, "Error establishing session", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (app *App) Logout(w http.ResponseWriter, r *http.Request) {
	if err := app.sessions.Destroy(r.Context()); err != nil {
		log.Printf("WARN: failed to destroy session: %v", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
