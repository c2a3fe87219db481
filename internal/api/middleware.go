// SPDX-License-Identifier: MIT

package api

import (
	"time"

	"github.com/labstack/echo/v4"
)

// observe records every request in the metrics registry and the log.
// Routes are labelled by their pattern so the label set stays bounded.
func (s *Server) observe(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			// render now so the recorded status is the one the client sees
			c.Error(err)
		}

		route := c.Path()
		if route == "" {
			route = "unmatched"
		}
		req := c.Request()
		status := c.Response().Status
		elapsed := time.Since(start)
		s.metrics.ObserveRequest(req.Method, route, status, elapsed)

		attrs := []any{
			"method", req.Method,
			"route", route,
			"status", status,
			"elapsed", elapsed,
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
		}
		if status >= 500 {
			s.logger.Error("request", attrs...)
		} else {
			s.logger.Debug("request", attrs...)
		}

		return nil
	}
}
