// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/katalvlaran/ctmc/kolmogorov"
	"github.com/katalvlaran/ctmc/reliability"
	"github.com/katalvlaran/ctmc/transition"
)

// legacyParams lists the /process keys in the order they are checked.
var legacyParams = []string{"number", "array1", "array2", "show_count", "show_labels"}

// LegacyRequest is the body of POST /process.
type LegacyRequest struct {
	Number     int       `json:"number"`
	Array1     []float64 `json:"array1"`
	Array2     []float64 `json:"array2"`
	ShowCount  int       `json:"show_count"`
	ShowLabels bool      `json:"show_labels"`
}

// LegacyResponse is the success body of POST /process: the transition graph
// and one entry per chart.
type LegacyResponse struct {
	RunID string                `json:"run_id"`
	Plot1 *transition.GraphView `json:"plot1"`
	Plot2 []kolmogorov.Batch    `json:"plot2"`
	Times []float64             `json:"times"`
}

type legacyError struct {
	Error string `json:"error"`
}

// legacyFail writes the {"error": ...} body used by /process.
func legacyFail(c echo.Context, code int, msg string) error {
	return c.JSON(code, legacyError{Error: msg})
}

func (s *Server) legacyProcess(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return legacyFail(c, http.StatusBadRequest, "No input data provided")
	}
	var raw map[string]json.RawMessage
	if len(body) == 0 || json.Unmarshal(body, &raw) != nil || len(raw) == 0 {
		return legacyFail(c, http.StatusBadRequest, "No input data provided")
	}
	for _, k := range legacyParams {
		if _, ok := raw[k]; !ok {
			return legacyFail(c, http.StatusBadRequest, fmt.Sprintf("Missing parameter: '%s'", k))
		}
	}

	var req LegacyRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return legacyFail(c, http.StatusBadRequest, fmt.Sprintf("Invalid parameter: %v", err))
	}

	res, err := s.runSolve(c.Request().Context(), reliability.Request{
		Components: req.Number,
		Lambda:     req.Array1,
		Mu:         req.Array2,
		ShowCount:  req.ShowCount,
		ShowLabels: req.ShowLabels,
	})
	if err != nil {
		ae := FromEngine(err)
		return legacyFail(c, ae.Code, legacyMessage(err, ae))
	}

	return c.JSON(http.StatusOK, LegacyResponse{
		RunID: res.RunID,
		Plot1: res.Graph,
		Plot2: res.Batches,
		Times: res.Trajectory.Times,
	})
}

// legacyMessage names the offending parameter with its /process key.
func legacyMessage(err error, ae *APIError) string {
	legacyName := map[string]string{
		reliability.ParamComponents: "number",
		reliability.ParamLambda:     "array1",
		reliability.ParamMu:         "array2",
		reliability.ParamShowCount:  "show_count",
	}
	if name, ok := legacyName[ae.Param]; ok {
		return fmt.Sprintf("Invalid parameter '%s': %v", name, err)
	}

	return err.Error()
}
