package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newServerClient(t *testing.T, h http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(Config{})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return srv, c
}

func TestGet_SendsBrowserHeaders(t *testing.T) {
	var gotUA, gotAccept string
	srv, c := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte("ok"))
	})

	resp, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(resp.Body) != "ok" {
		t.Errorf("body = %q", resp.Body)
	}
	if !strings.Contains(gotUA, "Chrome") {
		t.Errorf("User-Agent %q does not look like a browser", gotUA)
	}
	if gotAccept != acceptHeader {
		t.Errorf("Accept = %q, want %q", gotAccept, acceptHeader)
	}
}

func TestGet_CustomUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{UserAgent: "mirrorkit-test/1.0"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := c.Get(context.Background(), srv.URL); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotUA != "mirrorkit-test/1.0" {
		t.Errorf("User-Agent = %q", gotUA)
	}
}

func TestGet_RedirectLoop(t *testing.T) {
	srv, c := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/a" {
			http.Redirect(w, r, "/b", http.StatusFound)
		} else {
			http.Redirect(w, r, "/a", http.StatusFound)
		}
	})

	_, err := c.Get(context.Background(), srv.URL+"/a")
	if !errors.Is(err, ErrTooManyRedirects) {
		t.Errorf("got %v, want ErrTooManyRedirects", err)
	}
}

func TestGet_FollowsRedirectAndReportsFinalURL(t *testing.T) {
	srv, c := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/old" {
			http.Redirect(w, r, "/new", http.StatusMovedPermanently)
			return
		}
		w.Write([]byte("landed"))
	})

	resp, err := c.Get(context.Background(), srv.URL+"/old")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(resp.Body) != "landed" {
		t.Errorf("body = %q", resp.Body)
	}
	if !strings.HasSuffix(resp.FinalURL, "/new") {
		t.Errorf("FinalURL = %q, want .../new", resp.FinalURL)
	}
}

func TestGet_NonSuccessStatusIsError(t *testing.T) {
	srv, c := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})

	_, err := c.Get(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("Get of a 404 succeeded")
	}
	if !strings.Contains(err.Error(), "HTTP 404") {
		t.Errorf("error %q does not name the status", err)
	}
}

func TestGet_CookiesPersistAcrossRequests(t *testing.T) {
	srv, c := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/set":
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc"})
			w.Write([]byte("set"))
		case "/check":
			if ck, err := r.Cookie("session"); err != nil || ck.Value != "abc" {
				http.Error(w, "no session", http.StatusForbidden)
				return
			}
			w.Write([]byte("checked"))
		}
	})

	if _, err := c.Get(context.Background(), srv.URL+"/set"); err != nil {
		t.Fatalf("Get /set: %v", err)
	}
	resp, err := c.Get(context.Background(), srv.URL+"/check")
	if err != nil {
		t.Fatalf("Get /check: %v", err)
	}
	if string(resp.Body) != "checked" {
		t.Errorf("body = %q", resp.Body)
	}
}

func TestGet_Cancellation(t *testing.T) {
	srv, c := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Get(ctx, srv.URL); err == nil {
		t.Error("Get with a canceled context succeeded")
	}
}
