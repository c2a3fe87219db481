// SPDX-License-Identifier: MIT

package api

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/katalvlaran/ctmc/reliability"
)

// SolveRequest is the body of POST /api/v1/solve and the first message on
// /api/v1/stream. The engine re-checks everything; these tags reject
// malformed bodies before a solve is scheduled.
type SolveRequest struct {
	Components int       `json:"components" validate:"required,min=1"`
	Lambda     []float64 `json:"lambda" validate:"required,min=1"`
	Mu         []float64 `json:"mu" validate:"required,min=1"`
	Horizon    float64   `json:"horizon" validate:"gte=0"`
	Points     int       `json:"points" validate:"gte=0"`
	ShowCount  int       `json:"show_count" validate:"gte=0"`
	ShowLabels bool      `json:"show_labels"`
	RepairMode string    `json:"repair_mode" validate:"omitempty,oneof=mirrored restoring"`
}

func (r SolveRequest) toEngine() reliability.Request {
	return reliability.Request{
		Components: r.Components,
		Lambda:     r.Lambda,
		Mu:         r.Mu,
		Horizon:    r.Horizon,
		Points:     r.Points,
		ShowCount:  r.ShowCount,
		ShowLabels: r.ShowLabels,
		RepairMode: r.RepairMode,
	}
}

// GraphQuery is the query string of GET /api/v1/graph.
type GraphQuery struct {
	Components int    `query:"components" json:"components" validate:"required,min=1"`
	Format     string `query:"format" json:"format" validate:"omitempty,oneof=json dot mermaid"`
	Labels     bool   `query:"labels" json:"labels"`
}

// requestValidator adapts validator.Validate to echo.Validator and reports
// fields by their JSON names.
type requestValidator struct {
	v *validator.Validate
}

func newRequestValidator() *requestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &requestValidator{v: v}
}

// Validate implements echo.Validator.
func (rv *requestValidator) Validate(i interface{}) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return BadRequestError("Invalid request", err.Error())
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			fields[fe.Field()] = fe.Tag() + "=" + fe.Param()
		} else {
			fields[fe.Field()] = fe.Tag()
		}
	}

	return ValidationError("Validation failed", fields)
}
