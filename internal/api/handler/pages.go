package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// SiteInfo is the data every page template receives.
type SiteInfo struct {
	AppName     string
	Version     string
	Environment string
	APIPrefix   string
	DocsURL     string
}

type feature struct {
	Title string
	Body  string
}

type pageData struct {
	SiteInfo
	Year     int
	Features []feature
}

var homeFeatures = []feature{
	{Title: "JSON API", Body: "Versioned routes under a configurable prefix with OpenAPI docs."},
	{Title: "Token auth", Body: "OAuth2 password flow issuing signed JWT bearer tokens."},
	{Title: "Server-rendered pages", Body: "HTML templates and static assets built into the binary."},
	{Title: "Operations", Body: "Health checks, Prometheus metrics, structured logs and rate limiting."},
}

// PagesHandler serves the HTML pages.
type PagesHandler struct {
	site SiteInfo
}

func NewPagesHandler(site SiteInfo) *PagesHandler {
	return &PagesHandler{site: site}
}

func (h *PagesHandler) Home(c echo.Context) error {
	return c.Render(http.StatusOK, "home.html", h.data(homeFeatures))
}

func (h *PagesHandler) About(c echo.Context) error {
	return c.Render(http.StatusOK, "about.html", h.data(nil))
}

func (h *PagesHandler) data(features []feature) pageData {
	return pageData{SiteInfo: h.site, Year: time.Now().Year(), Features: features}
}
