package handler

import (
	"math"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/webscaffold/webapp/internal/api/metrics"
	"github.com/webscaffold/webapp/internal/core/ports"
	"github.com/webscaffold/webapp/internal/core/service"
)

type ExampleHandler struct {
	svc     ports.ExampleService
	metrics *metrics.Metrics
}

func NewExampleHandler(svc ports.ExampleService, m *metrics.Metrics) *ExampleHandler {
	return &ExampleHandler{svc: svc, metrics: m}
}

// List handles GET /examples.
//
// @Summary      List examples
// @Tags         examples
// @Produce      json
// @Security     OAuth2Password
// @Param        limit   query     int  false  "Page size (1-100)"  default(20)
// @Param        offset  query     int  false  "Items to skip"      default(0)
// @Success      200  {object}  exampleListResponse
// @Failure      401  {object}  errorBody
// @Failure      422  {object}  validationErrorBody
// @Router       /examples [get]
func (h *ExampleHandler) List(c echo.Context) error {
	limit, err := queryInt(c, "limit", service.DefaultPageLimit, 1, service.MaxPageLimit)
	if err != nil {
		return err
	}
	offset, err := queryInt(c, "offset", 0, 0, math.MaxInt32)
	if err != nil {
		return err
	}

	page, err := h.svc.List(c.Request().Context(), ports.ListExamplesInput{Limit: limit, Offset: offset})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toExampleListResponse(page))
}

// Get handles GET /examples/:id.
//
// @Summary      Get an example
// @Tags         examples
// @Produce      json
// @Security     OAuth2Password
// @Param        id   path      int  true  "Example ID"
// @Success      200  {object}  exampleResponse
// @Failure      401  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Failure      422  {object}  validationErrorBody
// @Router       /examples/{id} [get]
func (h *ExampleHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ex, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toExampleResponse(ex))
}

// Create handles POST /examples.
//
// @Summary      Create an example
// @Tags         examples
// @Accept       json
// @Produce      json
// @Security     OAuth2Password
// @Param        body  body      exampleRequest  true  "Example"
// @Success      201   {object}  exampleResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      422   {object}  validationErrorBody
// @Router       /examples [post]
func (h *ExampleHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req exampleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ex, err := h.svc.Create(c.Request().Context(), user, toExampleInput(req))
	if err != nil {
		return err
	}
	h.countMutation("create")
	return c.JSON(http.StatusCreated, toExampleResponse(ex))
}

// Update handles PUT /examples/:id.
//
// @Summary      Replace an example
// @Tags         examples
// @Accept       json
// @Produce      json
// @Security     OAuth2Password
// @Param        id    path      int             true  "Example ID"
// @Param        body  body      exampleRequest  true  "Example"
// @Success      200   {object}  exampleResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      403   {object}  errorBody
// @Failure      404   {object}  errorBody
// @Failure      422   {object}  validationErrorBody
// @Router       /examples/{id} [put]
func (h *ExampleHandler) Update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req exampleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ex, err := h.svc.Update(c.Request().Context(), user, id, toExampleInput(req))
	if err != nil {
		return err
	}
	h.countMutation("update")
	return c.JSON(http.StatusOK, toExampleResponse(ex))
}

// Delete handles DELETE /examples/:id.
//
// @Summary      Delete an example
// @Tags         examples
// @Security     OAuth2Password
// @Param        id   path  int  true  "Example ID"
// @Success      204
// @Failure      401  {object}  errorBody
// @Failure      403  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Router       /examples/{id} [delete]
func (h *ExampleHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), user, id); err != nil {
		return err
	}
	h.countMutation("delete")
	return c.NoContent(http.StatusNoContent)
}

func (h *ExampleHandler) countMutation(op string) {
	if h.metrics != nil {
		h.metrics.ExampleMutations.WithLabelValues(op).Inc()
	}
}
