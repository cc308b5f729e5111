package main

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Simplici0/houtcalc/web"
)

type baseViewData struct {
	ErrorMessage   string
	SuccessMessage string
}

var templateFuncs = template.FuncMap{
	"money": formatMoney,
}

// formatMoney renders an amount with two decimals and a decimal comma.
func formatMoney(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}

func (s *server) renderTemplate(w http.ResponseWriter, status int, page string, data any) {
	templates, err := web.Page(page, templateFuncs)
	if err != nil {
		s.logger.Error("parse template", zap.String("page", page), zap.Error(err))
		http.Error(w, "failed to parse template", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		s.logger.Error("render template", zap.String("page", page), zap.Error(err))
		http.Error(w, "failed to render template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
