package server

import (
	"github.com/katalvlaran/scales/analyzer"
	"github.com/katalvlaran/scales/scale"
	"github.com/katalvlaran/scales/strategy"
)

// StateQuery holds the query parameters shared by every /v1 endpoint.
type StateQuery struct {
	// Population is the number of items N (required).
	Population int `form:"n" binding:"required,min=1"`

	Unknown    int `form:"unknown" binding:"min=0"`
	MaybeLight int `form:"maybe_light" binding:"min=0"`
	MaybeHeavy int `form:"maybe_heavy" binding:"min=0"`

	// Metric selects the strategy objective (strategy endpoint only).
	Metric string `form:"metric" binding:"omitempty,oneof=worst-case expected wc exp"`
}

// AnalyzeResponse is returned by GET /v1/analyze.
type AnalyzeResponse struct {
	State   scale.State     `json:"state"`
	Symbols string          `json:"symbols"`
	Free    int             `json:"free"`
	Result  analyzer.Result `json:"result"`
}

// ExplainResponse is returned by GET /v1/explain.
type ExplainResponse struct {
	State      scale.State          `json:"state"`
	Status     analyzer.Status      `json:"status"`
	Result     *analyzer.Result     `json:"result,omitempty"`
	Candidates []analyzer.Candidate `json:"candidates"`
}

// StrategyResponse is returned by GET /v1/strategy.
type StrategyResponse struct {
	Metric   string         `json:"metric"`
	Depth    int            `json:"depth"`
	Leaves   int            `json:"leaves"`
	Expected float64        `json:"expected"`
	Root     *strategy.Node `json:"root"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Populations []int  `json:"populations"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	// Error is the error message.
	Error string `json:"error"`

	// Code is a stable machine-readable error code.
	Code string `json:"code"`
}
