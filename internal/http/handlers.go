package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/factd/internal/extraction"
)

// AnalyzeRequest is the request body for POST /api/v1/analyze.
// Texts takes precedence over Text.
type AnalyzeRequest struct {
	Texts []string `json:"texts,omitempty"`
	Text  *string  `json:"text,omitempty"`
}

// AnalyzeResponse is the response body for POST /api/v1/analyze.
type AnalyzeResponse struct {
	Results []extraction.Record `json:"results"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status    string   `json:"status"`
	Groups    []string `json:"groups"`
	Templates int      `json:"templates"`
}

// handleQuery analyzes the text in the configured query parameter.
func (s *Server) handleQuery(c echo.Context) error {
	a := s.current()

	values, ok := c.QueryParams()[s.config.QueryKey]
	if !ok || len(values) == 0 {
		return s.respond(c, a.EmptyRecord())
	}

	rec, err := a.Analyze(c.Request().Context(), values[0])
	if err != nil {
		return s.parserFailure(c, err)
	}
	return s.respond(c, []extraction.Record{rec})
}

// handlePost analyzes a JSON string or a JSON list of strings. Any other
// body yields the empty record.
func (s *Server) handlePost(c echo.Context) error {
	a := s.current()
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		s.logger.Warn(ctx, "read request body", zap.Error(err))
		return s.respond(c, a.EmptyRecord())
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		s.logger.Debug(ctx, "request body is not json", zap.Error(err))
		return s.respond(c, a.EmptyRecord())
	}

	switch v := payload.(type) {
	case string:
		rec, err := a.Analyze(ctx, v)
		if err != nil {
			return s.parserFailure(c, err)
		}
		return s.respond(c, []extraction.Record{rec})
	case []any:
		records, err := s.analyzeEntries(c, a, v)
		if err != nil {
			return s.parserFailure(c, err)
		}
		return s.respond(c, records)
	default:
		return s.respond(c, a.EmptyRecord())
	}
}

// analyzeEntries analyzes the string entries of a list in one batch and
// puts empty records in the place of every other entry.
func (s *Server) analyzeEntries(c echo.Context, a Analyzer, entries []any) ([]extraction.Record, error) {
	texts := make([]string, 0, len(entries))
	positions := make([]int, 0, len(entries))
	for i, e := range entries {
		if text, ok := e.(string); ok {
			texts = append(texts, text)
			positions = append(positions, i)
		}
	}

	analyzed, err := a.AnalyzeBatch(c.Request().Context(), texts)
	if err != nil {
		return nil, err
	}

	records := make([]extraction.Record, len(entries))
	for i := range records {
		records[i] = a.EmptyRecord()
	}
	for j, pos := range positions {
		records[pos] = analyzed[j]
	}
	return records, nil
}

// handleAnalyze serves the structured analysis endpoint.
func (s *Server) handleAnalyze(c echo.Context) error {
	a := s.current()
	ctx := c.Request().Context()

	var req AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Debug(ctx, "invalid analyze request", zap.Error(err))
		return s.respond(c, AnalyzeResponse{Results: []extraction.Record{a.EmptyRecord()}})
	}

	var texts []string
	switch {
	case req.Texts != nil:
		texts = req.Texts
	case req.Text != nil:
		texts = []string{*req.Text}
	default:
		return s.respond(c, AnalyzeResponse{Results: []extraction.Record{a.EmptyRecord()}})
	}

	records, err := a.AnalyzeBatch(ctx, texts)
	if err != nil {
		return s.parserFailure(c, err)
	}
	return s.respond(c, AnalyzeResponse{Results: records})
}

// handleHealth reports the loaded groups and template count.
func (s *Server) handleHealth(c echo.Context) error {
	a := s.current()
	return c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Groups:    a.Groups(),
		Templates: a.TemplateCount(),
	})
}

func (s *Server) parserFailure(c echo.Context, err error) error {
	s.logger.Error(c.Request().Context(), "analysis failed", zap.Error(err))
	return echo.NewHTTPError(http.StatusBadGateway, "parser unavailable")
}

// respond writes v as JSON without HTML escaping and records it in the
// journal.
func (s *Server) respond(c echo.Context, v any) error {
	body, err := encode(v)
	if err != nil {
		return err
	}
	if s.journal != nil {
		if err := s.journal.Append(body); err != nil {
			s.logger.Warn(c.Request().Context(), "journal append failed", zap.Error(err))
		}
	}
	return c.JSONBlob(http.StatusOK, body)
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
