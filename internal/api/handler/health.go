package handler

import (
	"context"
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/webscaffold/webapp/internal/infrastructure/system"
)

const readinessTimeout = 3 * time.Second

// Checker reports whether a dependency is reachable.
type Checker interface {
	Ping(ctx context.Context) error
}

// SystemInspector samples host resource usage.
type SystemInspector interface {
	Check(ctx context.Context) system.Report
}

// HealthHandler serves the liveness, readiness and system checks.
type HealthHandler struct {
	checkers  map[string]Checker
	inspector SystemInspector
	database  string
	version   string
}

// NewHealthHandler builds the handler. database names the configured
// store for the system report; checkers are pinged by readiness.
func NewHealthHandler(inspector SystemInspector, database, version string, checkers map[string]Checker) *HealthHandler {
	if checkers == nil {
		checkers = map[string]Checker{}
	}
	return &HealthHandler{checkers: checkers, inspector: inspector, database: database, version: version}
}

// Liveness handles GET /health and confirms the process is alive.
//
// @Summary      Liveness check
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness handles GET /health/ready and pings every configured dependency.
//
// @Summary      Readiness check
// @Tags         health
// @Produce      json
// @Success      200  {object}  readinessResponse
// @Failure      503  {object}  readinessResponse
// @Router       /health/ready [get]
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	deps, healthy := h.pingAll(ctx)

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}

type databaseReport struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
	Message string `json:"message,omitempty"`
}

type systemResponse struct {
	Status         string                      `json:"status"`
	Version        string                      `json:"version"`
	Timestamp      float64                     `json:"timestamp"`
	ResponseTimeMS float64                     `json:"response_time_ms"`
	System         system.Report               `json:"system"`
	Database       databaseReport              `json:"database"`
	Services       map[string]dependencyStatus `json:"services"`
}

// System handles GET /health/system with resource usage and dependency state.
//
// @Summary      System health
// @Tags         health
// @Produce      json
// @Success      200  {object}  systemResponse
// @Router       /health/system [get]
func (h *HealthHandler) System(c echo.Context) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	sys := h.inspector.Check(ctx)
	deps, _ := h.pingAll(ctx)

	db := databaseReport{Status: "not_configured", Backend: h.database, Message: "using in-memory storage"}
	if dep, ok := deps[h.database]; ok {
		db = databaseReport{Status: system.StatusHealthy, Backend: h.database}
		if dep.Status != "ok" {
			db.Status = system.StatusError
			db.Message = dep.Error
		}
	}

	services := make(map[string]dependencyStatus, len(deps))
	var svcStatuses []string
	for name, dep := range deps {
		if name == h.database {
			continue
		}
		services[name] = dep
		if dep.Status != "ok" {
			svcStatuses = append(svcStatuses, system.StatusWarning)
		}
	}

	overall := system.Worst(append([]string{sys.Status, db.Status}, svcStatuses...)...)
	elapsed := float64(time.Since(start).Microseconds()) / 1000

	return c.JSON(http.StatusOK, systemResponse{
		Status:         overall,
		Version:        h.version,
		Timestamp:      float64(time.Now().UnixMilli()) / 1000,
		ResponseTimeMS: math.Round(elapsed*100) / 100,
		System:         sys,
		Database:       db,
		Services:       services,
	})
}

func (h *HealthHandler) pingAll(ctx context.Context) (map[string]dependencyStatus, bool) {
	names := make([]string, 0, len(h.checkers))
	for name := range h.checkers {
		names = append(names, name)
	}
	sort.Strings(names)

	deps := make(map[string]dependencyStatus, len(names))
	healthy := true
	for _, name := range names {
		if err := h.checkers[name].Ping(ctx); err != nil {
			deps[name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			continue
		}
		deps[name] = dependencyStatus{Status: "ok"}
	}
	return deps, healthy
}
