// SPDX-License-Identifier: MIT

package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/katalvlaran/ctmc/internal/version"
	"github.com/katalvlaran/ctmc/transition"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string       `json:"status"`
	Version version.Info `json:"version"`
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Version: version.Get()})
}

func (s *Server) solve(c echo.Context) error {
	var req SolveRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestError("Invalid request body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := s.runSolve(c.Request().Context(), req.toEngine())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, res)
}

func (s *Server) graph(c echo.Context) error {
	var q GraphQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return BadRequestError("Invalid query", err.Error())
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	limits := s.engine.Config()
	if q.Components <= limits.MaxComponents && 1<<uint(q.Components) > limits.MaxGraphStates {
		return &APIError{
			Code:    http.StatusRequestEntityTooLarge,
			Message: "Resource limit exceeded",
			Details: fmt.Sprintf("%d states exceed the render limit of %d", 1<<uint(q.Components), limits.MaxGraphStates),
			Param:   "components",
		}
	}
	g, err := s.engine.Graph(c.Request().Context(), q.Components)
	if err != nil {
		return err
	}

	opts := []transition.RenderOption{transition.WithEdgeLabels(q.Labels)}
	switch q.Format {
	case "dot":
		return c.Blob(http.StatusOK, "text/vnd.graphviz; charset=utf-8", []byte(transition.DOT(g, opts...)))
	case "mermaid":
		return c.String(http.StatusOK, transition.Mermaid(g, opts...))
	default:
		return c.JSON(http.StatusOK, transition.Export(g, opts...))
	}
}
