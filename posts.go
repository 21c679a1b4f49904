package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inkwell/constants"
)

// bodyPolicy sanitizes user-supplied editor HTML (post bodies and comments)
// before it is stored and later re-emitted unescaped.
var bodyPolicy = bluemonday.UGCPolicy()

func (app *App) Index(w http.ResponseWriter, r *http.Request) {
	var posts []BlogPost
	result := app.db.Preload("Author").Order("id ASC").Find(&posts)
	if result.Error != nil {
		http.Error(w, "Error fetching posts", http.StatusInternalServerError)
		return
	}
	app.render(w, r, "index", posts)
}

// findPost loads the post named in the route, or writes a 404 and returns nil.
func (app *App) findPost(w http.ResponseWriter, r *http.Request, preloadComments bool) *BlogPost {
	id, err := strconv.Atoi(chi.URLParam(r, "postID"))
	if err != nil || id <= 0 {
		http.Error(w, "Post not found", http.StatusNotFound)
		return nil
	}

	query := app.db.Preload("Author")
	if preloadComments {
		query = query.
			Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("comments.id ASC") }).
			Preload("Comments.Author")
	}

	var post BlogPost
	if err := query.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Post not found", http.StatusNotFound)
		} else {
			http.Error(w, "Error fetching post", http.StatusInternalServerError)
		}
		return nil
	}
	return &post
}

func (app *App) ShowPost(w http.ResponseWriter, r *http.Request) {
	post := app.findPost(w, r, true)
	if post == nil {
		return
	}
	app.render(w, r, "post", post)
}

// SubmitComment handles the comment form on the post detail page. The write
// requires a signed-in session; anonymous submissions are bounced to the
// login form without creating anything.
func (app *App) SubmitComment(w http.ResponseWriter, r *http.Request) {
	post := app.findPost(w, r, false)
	if post == nil {
		return
	}
	postURL := fmt.Sprintf("/post/%d", post.ID)

	user := app.currentUser(r)
	if user == nil {
		app.flashAndRedirect(w, r, "/login", "You must log in to comment", "info")
		return
	}

	body := bodyPolicy.Sanitize(r.FormValue("body"))
	if strings.TrimSpace(body) == "" {
		app.flashAndRedirect(w, r, postURL, "Comment cannot be empty", "error")
		return
	}
	if len(body) > constants.MAX_COMMENT_LENGTH {
		app.flashAndRedirect(w, r, postURL, "Comment is too long", "error")
		return
	}

	comment := Comment{Body: body, AuthorID: user.ID, BlogPostID: post.ID}
	if err := app.db.Create(&comment).Error; err != nil {
		http.Error(w, "Error submitting comment", http.StatusInternalServerError)
		return
	}

	// Redirect back to the detail view so a refresh doesn't resubmit.
	http.Redirect(w, r, postURL, http.StatusSeeOther)
}

// makePostData drives the shared create/edit form template.
type makePostData struct {
	Post    *BlogPost
	Editing bool
}

func (app *App) NewPostForm(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, "make-post", makePostData{Post: &BlogPost{}})
}

func (app *App) CreatePost(w http.ResponseWriter, r *http.Request) {
	user := app.currentUser(r)

	title := strings.TrimSpace(r.FormValue("title"))
	subtitle := strings.TrimSpace(r.FormValue("subtitle"))
	body := bodyPolicy.Sanitize(r.FormValue("body"))
	imageURL := strings.TrimSpace(r.FormValue("img_url"))

	if title == "" || subtitle == "" || strings.TrimSpace(body) == "" || imageURL == "" {
		app.flashAndRedirect(w, r, "/new-post", "All fields are required", "error")
		return
	}

	post := BlogPost{
		Title:       title,
		Subtitle:    subtitle,
		Body:        body,
		ImageURL:    imageURL,
		PublishedOn: time.Now(),
		AuthorID:    user.ID,
	}
	if err := app.db.Create(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			app.flashAndRedirect(w, r, "/new-post", "A post with that title already exists", "error")
			return
		}
		http.Error(w, "Error creating post", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (app *App) EditPostForm(w http.ResponseWriter, r *http.Request) {
	post := app.findPost(w, r, false)
	if post == nil {
		return
	}
	app.render(w, r, "make-post", makePostData{Post: post, Editing: true})
}

// UpdatePost rewrites the four editable fields; author and publication date
// are left untouched.
func (app *App) UpdatePost(w http.ResponseWriter, r *http.Request) {
	post := app.findPost(w, r, false)
	if post == nil {
		return
	}
	editURL := fmt.Sprintf("/edit-post/%d", post.ID)

	title := strings.TrimSpace(r.FormValue("title"))
	subtitle := strings.TrimSpace(r.FormValue("subtitle"))
	body := bodyPolicy.Sanitize(r.FormValue("body"))
	imageURL := strings.TrimSpace(r.FormValue("img_url"))

	if title == "" || subtitle == "" || strings.TrimSpace(body) == "" || imageURL == "" {
		app.flashAndRedirect(w, r, editURL, "All fields are required", "error")
		return
	}

	post.Title = title
	post.Subtitle = subtitle
	post.Body = body
	post.ImageURL = imageURL
	if err := app.db.Save(post).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			app.flashAndRedirect(w, r, editURL, "A post with that title already exists", "error")
			return
		}
		http.Error(w, "Error updating post", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/post/%d", post.ID), http.StatusSeeOther)
}

// DeletePost removes the post and, through the declared association, its
// comments. Deletion is explicit about associations so it doesn't depend on
// SQLite's foreign_keys pragma being enabled.
func (app *App) DeletePost(w http.ResponseWriter, r *http.Request) {
	post := app.findPost(w, r, false)
	if post == nil {
		return
	}

	if err := app.db.Select(clause.Associations).Delete(post).Error; err != nil {
		http.Error(w, "Error deleting post", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
