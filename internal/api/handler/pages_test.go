package handler

import (
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/webscaffold/webapp/internal/web"
)

func TestPagesHandler_Render(t *testing.T) {
	e := newEcho()
	r, err := web.NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	e.Renderer = r

	h := NewPagesHandler(SiteInfo{AppName: "Acme", Version: "2.0.0", APIPrefix: "/api", DocsURL: "/api/docs/index.html"})

	c, rec := newContext(e, http.MethodGet, "/", nil, "")
	if err := h.Home(c); err != nil {
		t.Fatalf("home: %v", err)
	}
	body := rec.Body.String()
	for _, want := range []string{"Welcome to Acme", "/api/docs/index.html", "Token auth", strconv.Itoa(time.Now().Year())} {
		if !strings.Contains(body, want) {
			t.Fatalf("home page missing %q", want)
		}
	}

	c, rec = newContext(e, http.MethodGet, "/about", nil, "")
	if err := h.About(c); err != nil {
		t.Fatalf("about: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "About Acme") {
		t.Fatalf("about page missing title")
	}
}
