package main

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/spf13/viper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"inkwell/constants"
)

// App carries everything a request handler needs: the store handle, the
// session manager, and the parsed templates. Built once in main, injected
// into tests with an ephemeral database.
type App struct {
	db       *gorm.DB
	sessions *scs.SessionManager
	tmpl     map[string]*template.Template
}

func main() {
	initConfig()

	db, err := openDatabase(viper.GetString("database_path"))
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	app, err := newApp(db)
	if err != nil {
		log.Fatalf("failed to initialize app: %v", err)
	}

	addr := viper.GetString("listen_addr")
	log.Printf("%s running on http://localhost%s", constants.SITE_NAME, addr)
	log.Fatal(http.ListenAndServe(addr, app.routes()))
}

func openDatabase(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := db.AutoMigrate(&User{}, &BlogPost{}, &Comment{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	// Session store table, as expected by scs's sqlite3store.
	if err := db.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	)`).Error; err != nil {
		return nil, fmt.Errorf("create sessions table: %w", err)
	}
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry)`).Error; err != nil {
		return nil, fmt.Errorf("create sessions index: %w", err)
	}

	return db, nil
}

func newApp(db *gorm.DB) (*App, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sessions := scs.New()
	sessions.Store = sqlite3store.New(sqlDB)
	sessions.Lifetime = 24 * time.Hour
	sessions.Cookie.HttpOnly = true
	sessions.Cookie.SameSite = http.SameSiteLaxMode

	tmpl, err := loadTemplates(constants.TEMPLATES_DIR)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &App{db: db, sessions: sessions, tmpl: tmpl}, nil
}

func (app *App) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(app.sessions.LoadAndSave)

	r.Get("/", app.Index)
	r.Get("/about", app.About)
	r.Get("/contact", app.ContactForm)
	r.Post("/contact", app.ContactSubmit)

	r.Get("/post/{postID}", app.ShowPost)
	r.Post("/post/{postID}", app.SubmitComment)

	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(20, time.Minute))
		r.Get("/register", app.RegisterForm)
		r.Post("/register", app.Register)
		r.Get("/login", app.LoginForm)
		r.Post("/login", app.Login)
	})

	r.With(app.require(capSignedIn)).Get("/logout", app.Logout)

	r.Group(func(r chi.Router) {
		r.Use(app.require(capSignedIn, capManagePosts))
		r.Get("/new-post", app.NewPostForm)
		r.Post("/new-post", app.CreatePost)
		r.Get("/edit-post/{postID}", app.EditPostForm)
		r.Post("/edit-post/{postID}", app.UpdatePost)
		r.Get("/delete/{postID}", app.DeletePost)
	})

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	return r
}
