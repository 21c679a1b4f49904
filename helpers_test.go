package main

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestApp builds an App over an ephemeral database and serves it from an
// httptest server.
func newTestApp(t *testing.T) (*App, string) {
	t.Helper()

	db, err := openDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	app, err := newApp(db)
	require.NoError(t, err)

	ts := httptest.NewServer(app.routes())
	t.Cleanup(ts.Close)

	return app, ts.URL
}

// newClient returns a cookie-carrying client that does not follow redirects,
// so tests can assert on 303s and Location headers.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func get(t *testing.T, c *http.Client, url string) (*http.Response, string) {
	t.Helper()
	resp, err := c.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func postForm(t *testing.T, c *http.Client, url string, form url.Values) *http.Response {
	t.Helper()
	resp, err := c.PostForm(url, form)
	require.NoError(t, err)
	resp.Body.Close()
	return resp
}

func signUp(t *testing.T, c *http.Client, base, name, email, password string) *http.Response {
	t.Helper()
	return postForm(t, c, base+"/register", url.Values{
		"name":     {name},
		"email":    {email},
		"password": {password},
	})
}

func logIn(t *testing.T, c *http.Client, base, email, password string) *http.Response {
	t.Helper()
	return postForm(t, c, base+"/login", url.Values{
		"email":    {email},
		"password": {password},
	})
}

// createPost publishes a post through the admin form and requires success.
func createPost(t *testing.T, c *http.Client, base, title string) {
	t.Helper()
	resp := postForm(t, c, base+"/new-post", url.Values{
		"title":    {title},
		"subtitle": {"A subtitle"},
		"body":     {"<p>Some body text</p>"},
		"img_url":  {"https://example.com/cover.jpg"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
}
