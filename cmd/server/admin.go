package main

import (
	"fmt"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Simplici0/houtcalc/internal/pricing"
)

const pricePrefix = "price_"

type priceRow struct {
	Key   string
	Value string
}

type pricesViewData struct {
	baseViewData
	Revision string
	Prices   []priceRow
}

func (s *server) handleAdminPricesForm(w http.ResponseWriter, r *http.Request) {
	s.renderPrices(w, http.StatusOK, baseViewData{})
}

func (s *server) handleAdminPricesJSON(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.prices.Snapshot())
}

func (s *server) handleAdminPricesSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	updates, err := parsePriceForm(r)
	if err != nil {
		s.renderPrices(w, http.StatusBadRequest, baseViewData{ErrorMessage: err.Error()})
		return
	}

	saved, err := s.prices.Update(r.Context(), strings.TrimSpace(r.FormValue("note")), func(prices map[string]float64) {
		for key, value := range updates {
			prices[key] = value
		}
	})
	if err != nil {
		s.logger.Error("save price table", zap.Error(err))
		s.renderPrices(w, http.StatusInternalServerError, baseViewData{ErrorMessage: "Prijslijst kon niet worden opgeslagen."})
		return
	}

	s.metrics.PriceUpdates.Inc()
	s.logger.Info("price table saved", zap.String("revision", saved.Revision), zap.Int("changes", len(updates)))
	s.renderPrices(w, http.StatusOK, baseViewData{SuccessMessage: "Prijslijst opgeslagen."})
}

func (s *server) renderPrices(w http.ResponseWriter, status int, base baseViewData) {
	table := s.prices.Snapshot()
	data := pricesViewData{baseViewData: base, Revision: table.Revision}
	for _, key := range table.Keys() {
		data.Prices = append(data.Prices, priceRow{
			Key:   key,
			Value: strconv.FormatFloat(table.Prices[key], 'f', -1, 64),
		})
	}
	s.renderTemplate(w, status, "admin_prices.html", data)
}

// parsePriceForm collects the price_<key> fields plus an optional new
// key/price pair. Blank fields are left unchanged.
func parsePriceForm(r *http.Request) (map[string]float64, error) {
	updates := map[string]float64{}

	keys := make([]string, 0, len(r.PostForm))
	for field := range r.PostForm {
		keys = append(keys, field)
	}
	sort.Strings(keys)

	for _, field := range keys {
		key, ok := strings.CutPrefix(field, pricePrefix)
		if !ok || key == "" {
			continue
		}
		raw := strings.TrimSpace(r.PostForm.Get(field))
		if raw == "" {
			continue
		}
		value, err := parseNonNegativeFloat(raw, key)
		if err != nil {
			return nil, err
		}
		updates[key] = value
	}

	newKey := strings.TrimSpace(r.PostForm.Get("new_key"))
	newPrice := strings.TrimSpace(r.PostForm.Get("new_price"))
	switch {
	case newKey == "" && newPrice == "":
	case newKey == "" || newPrice == "":
		return nil, fmt.Errorf("nieuwe code en prijs moeten beide ingevuld zijn")
	default:
		value, err := parseNonNegativeFloat(newPrice, newKey)
		if err != nil {
			return nil, err
		}
		updates[newKey] = value
	}

	return updates, nil
}

func parseNonNegativeFloat(raw, field string) (float64, error) {
	value, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%s moet een getal zijn", field)
	}
	if value < 0 {
		return 0, fmt.Errorf("%s moet groter of gelijk aan 0 zijn: %w", field, pricing.ErrNegativePrice)
	}
	return value, nil
}
