package main

import (
	"net/http"
	"strings"
)

func (app *App) About(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, "about", nil)
}

func (app *App) ContactForm(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, "contact", nil)
}

// ContactSubmit forwards the visitor's message to the site owner by mail.
// When no SMTP settings are configured the form degrades to a notice.
func (app *App) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	message := strings.TrimSpace(r.FormValue("message"))

	if name == "" || email == "" || message == "" {
		app.flashAndRedirect(w, r, "/contact", "All fields are required", "error")
		return
	}

	if !mailConfigured() {
		app.flashAndRedirect(w, r, "/contact", "Mail is not configured on this site, please try another way to reach us", "info")
		return
	}

	body := "From: " + name + " <" + email + ">\n\n" + message
	if err := SendContactMail("New contact form message", body); err != nil {
		app.flashAndRedirect(w, r, "/contact", "Could not send your message, please try again later", "error")
		return
	}

	app.flashAndRedirect(w, r, "/contact", "Thanks, your message has been sent", "success")
}
