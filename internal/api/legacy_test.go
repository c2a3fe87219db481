// SPDX-License-Identifier: MIT

package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ctmc/internal/api"
)

func TestLegacyProcess(t *testing.T) {
	s, _ := newServer(t, testConfig())
	rec := do(t, s, http.MethodPost, "/process",
		`{"number":2,"array1":[1,1],"array2":[0.5,0.5],"show_count":2,"show_labels":false}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body api.LegacyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.RunID)
	require.NotNil(t, body.Plot1)
	assert.Equal(t, 4, body.Plot1.States)
	for _, e := range body.Plot1.Edges {
		assert.Empty(t, e.Label)
	}
	require.Len(t, body.Plot2, 2, "four states at two per chart")
	assert.Equal(t, "State 3", body.Plot2[1].Series[0].Label)
	assert.Len(t, body.Times, 100)
	assert.Equal(t, 10.0, body.Times[99])
}

func TestLegacyErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		code int
		msg  string
	}{
		{"empty body", ``, http.StatusBadRequest, "No input data provided"},
		{"empty object", `{}`, http.StatusBadRequest, "No input data provided"},
		{"missing number", `{"array1":[1],"array2":[1],"show_count":1,"show_labels":true}`, http.StatusBadRequest, "Missing parameter: 'number'"},
		{"missing show_labels", `{"number":1,"array1":[1],"array2":[1],"show_count":1}`, http.StatusBadRequest, "Missing parameter: 'show_labels'"},
		{"wrong type", `{"number":"two","array1":[1],"array2":[1],"show_count":1,"show_labels":true}`, http.StatusBadRequest, ""},
		{"short rates", `{"number":2,"array1":[1],"array2":[1,1],"show_count":1,"show_labels":true}`, http.StatusBadRequest, ""},
		{"too large", `{"number":20,"array1":[1],"array2":[1],"show_count":1,"show_labels":true}`, http.StatusRequestEntityTooLarge, ""},
	}
	s, _ := newServer(t, testConfig())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/process", tc.body)
			require.Equal(t, tc.code, rec.Code, rec.Body.String())

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Contains(t, body, "error")
			if tc.msg != "" {
				assert.Equal(t, tc.msg, body["error"])
			}
		})
	}
}

func TestLegacyNamesParameter(t *testing.T) {
	s, _ := newServer(t, testConfig())
	rec := do(t, s, http.MethodPost, "/process",
		`{"number":2,"array1":[1,1],"array2":[1,-1],"show_count":1,"show_labels":true}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "'array2'")
}
