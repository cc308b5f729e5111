package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Simplici0/houtcalc/internal/bvx"
	"github.com/Simplici0/houtcalc/internal/export"
	"github.com/Simplici0/houtcalc/internal/metrics"
	"github.com/Simplici0/houtcalc/internal/pricing"
	"github.com/Simplici0/houtcalc/internal/quote"
)

const uploadField = "file"

type quoteViewData struct {
	baseViewData
	Quote pricing.Quote
}

func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.renderTemplate(w, http.StatusOK, "home.html", baseViewData{})
}

// handleQuote prices an uploaded document and answers as HTML, JSON or CSV
// depending on the format query parameter.
func (s *server) handleQuote(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = "html"
	}
	if format != "html" && format != "json" && format != "csv" {
		http.Error(w, "unknown format "+format, http.StatusBadRequest)
		return
	}

	result, status, err := s.quoteRequest(w, r)
	if err != nil {
		if format == "html" {
			s.renderTemplate(w, status, "home.html", baseViewData{ErrorMessage: err.Error()})
			return
		}
		writeJSONError(w, status, err)
		return
	}

	switch format {
	case "json":
		writeJSON(w, http.StatusOK, result.Quote)
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+csvFilename(result.Quote.ProjectName)+`"`)
		if err := export.WriteCSV(w, result.Quote); err != nil {
			s.logger.Error("write csv", zap.Error(err))
		}
	default:
		s.renderTemplate(w, http.StatusOK, "quote.html", quoteViewData{Quote: result.Quote})
	}
}

func (s *server) handleQuoteJSON(w http.ResponseWriter, r *http.Request) {
	result, status, err := s.quoteRequest(w, r)
	if err != nil {
		writeJSONError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Quote)
}

// quoteRequest reads the document from r and runs it through the pipeline
// with the current price table. The returned status is meaningful only when
// err is non-nil.
func (s *server) quoteRequest(w http.ResponseWriter, r *http.Request) (quote.Result, int, error) {
	data, err := s.readDocument(w, r)
	if err != nil {
		s.metrics.Documents.WithLabelValues("rejected").Inc()
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return quote.Result{}, http.StatusRequestEntityTooLarge, fmt.Errorf("bestand is groter dan %d bytes", tooLarge.Limit)
		}
		return quote.Result{}, http.StatusBadRequest, err
	}

	table := s.prices.Snapshot()
	pipeline := quote.Pipeline{}
	pipeline.Parser.Surcharge.StockSizes = s.prices.StockSizes()

	timer := metrics.NewTimer()
	result, err := pipeline.FromDocument(data, table)
	if err != nil {
		status := statusForError(err)
		s.metrics.Documents.WithLabelValues(statusLabel(status)).Inc()
		s.logger.Warn("quote failed", zap.Int("status", status), zap.Error(err))
		return quote.Result{}, status, err
	}
	s.metrics.ObserveStage("quote", timer.Duration())
	s.observeQuote(result)
	return result, http.StatusOK, nil
}

func (s *server) readDocument(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		if len(data) == 0 {
			return nil, errors.New("leeg document")
		}
		return data, nil
	}

	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		return nil, err
	}
	file, _, err := r.FormFile(uploadField)
	if err != nil {
		return nil, fmt.Errorf("geen bestand ontvangen: %w", err)
	}
	defer file.Close()
	return io.ReadAll(file)
}

func (s *server) observeQuote(result quote.Result) {
	q := result.Quote
	s.metrics.Documents.WithLabelValues("ok").Inc()
	s.metrics.Parts.Add(float64(len(q.Lines)))
	for _, line := range q.Lines {
		if line.Surcharge.Required {
			s.metrics.SurchargeParts.Inc()
		}
	}
	total, _ := q.Total.Float64()
	s.metrics.QuoteTotal.Observe(total)

	if len(q.Unpriced) > 0 {
		codes := make([]string, len(q.Unpriced))
		for i, c := range q.Unpriced {
			codes[i] = string(c)
			s.metrics.UnpricedCodes.WithLabelValues(string(c)).Inc()
		}
		s.logger.Warn("operation codes without price",
			zap.String("project", q.ProjectName),
			zap.Strings("codes", codes),
		)
	}
	s.logger.Info("quote",
		zap.String("project", q.ProjectName),
		zap.Int("parts", len(q.Lines)),
		zap.String("total", q.Total.StringFixed(2)),
		zap.String("price_revision", q.PriceRevision),
	)
}

// statusForError maps pipeline failures onto HTTP statuses: documents that
// cannot be read or validated are the client's fault.
func statusForError(err error) int {
	var parseErr *bvx.ParseError
	if errors.As(err, &parseErr) {
		return http.StatusBadRequest
	}
	var stageErr *quote.StageError
	if errors.As(err, &stageErr) && stageErr.Stage == quote.StageValidate {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func statusLabel(status int) string {
	if status >= 500 {
		return "error"
	}
	return "rejected"
}

func csvFilename(projectName string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, projectName)
	if name == "" {
		name = "offerte"
	}
	return name + ".csv"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
