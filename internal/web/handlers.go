package web

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/vijay-prabhu/gcgcards/internal/backend"
	"github.com/vijay-prabhu/gcgcards/internal/filter"
	"github.com/vijay-prabhu/gcgcards/internal/lookup"
	"github.com/vijay-prabhu/gcgcards/internal/output"
)

// adjustPath is where the per-card adjustment form posts
const adjustPath = "/adjust"

// field is one input of the filter form
type field struct {
	Name        string
	Label       string
	Value       string
	Type        string
	Placeholder string
	Options     []string
}

// page is the data of the "page" template
type page struct {
	output.Page
	Fields   []field
	Rendered bool
}

// cardTypes are offered in the card type select
var cardTypes = []string{"UNIT", "PILOT", "COMMAND", "BASE"}

func formFields(c filter.Criteria) []field {
	return []field{
		{Name: filter.ParamSetCode, Label: "系列", Value: c.SetCode, Type: "text", Placeholder: "GD01"},
		{Name: filter.ParamCardType, Label: "類型", Value: c.CardType, Options: cardTypes},
		{Name: filter.ParamCost, Label: "Cost", Value: c.Cost, Type: "number"},
		{Name: filter.ParamLevel, Label: "Level", Value: c.Level, Type: "text"},
		{Name: filter.ParamColor, Label: "顏色", Value: c.Color, Type: "text"},
		{Name: filter.ParamRarity, Label: "稀有度", Value: c.Rarity, Type: "text"},
		{Name: filter.ParamAP, Label: "AP", Value: c.AP, Type: "number"},
		{Name: filter.ParamHP, Label: "HP", Value: c.HP, Type: "number"},
		{Name: filter.ParamAPHPTotal, Label: "AP+HP", Value: c.APHPTotal, Type: "number"},
		{Name: filter.ParamMinScore, Label: "最低分數", Value: c.MinScore, Type: "number"},
		{Name: filter.ParamName, Label: "名稱", Value: c.Name, Type: "text"},
	}
}

// criteriaFromQuery reads criteria from form or query values, keeping the
// first value of each parameter
func criteriaFromQuery(q url.Values) filter.Criteria {
	params := make(map[string]string, len(q))
	for k := range q {
		params[k] = q.Get(k)
	}
	return filter.FromParams(params)
}

// encodeCriteria is the query string that reproduces a search
func encodeCriteria(c filter.Criteria) string {
	q := url.Values{}
	for k, v := range c.Params() {
		q.Set(k, v)
	}
	return q.Encode()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	criteria := criteriaFromQuery(r.URL.Query())

	capture := lookup.NewCapture()
	// Failures are reported through the captured status.
	_, _ = s.controller(capture).Search(r.Context(), criteria)

	s.render(w, criteria, capture, capture)
}

func (s *Server) handleAdjust(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	cardNo := strings.TrimSpace(r.PostFormValue("cardNo"))
	if cardNo == "" {
		http.Error(w, "cardNo is required", http.StatusBadRequest)
		return
	}
	adjustment := strings.TrimSpace(r.PostFormValue("adjustment"))

	returnQuery, err := url.ParseQuery(r.PostFormValue("return"))
	if err != nil {
		returnQuery = url.Values{}
	}
	criteria := criteriaFromQuery(returnQuery)

	capture := lookup.NewCapture()
	err = s.controller(capture).SaveAdjustment(r.Context(), cardNo, adjustment, criteria)

	// A failed save leaves the grid as it was: show the same search again
	// under the save error.
	grid := capture
	if _, rendered := capture.Cards(); err != nil && !rendered && !errors.Is(err, backend.ErrNotConfigured) {
		grid = lookup.NewCapture()
		_, _ = s.controller(grid).Search(r.Context(), criteria)
	}

	s.render(w, criteria, capture, grid)
}

// render writes the page with the status from st and the cards from grid
func (s *Server) render(w http.ResponseWriter, criteria filter.Criteria, st, grid *lookup.Capture) {
	cards, rendered := grid.Cards()

	data := page{
		Page: output.Page{
			Title:        output.DocumentTitle,
			Cards:        output.NewCardViews(cards, s.display),
			AdjustAction: adjustPath,
			ReturnQuery:  encodeCriteria(criteria),
		},
		Fields:   formFields(criteria),
		Rendered: rendered,
	}
	if status, ok := st.Status(); ok {
		data.Status = &status
	}

	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "page", data); err != nil {
		s.logger.Error("failed to render page", zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

type apiError struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// handleAPICards runs a search and returns the scored cards as JSON
func (s *Server) handleAPICards(w http.ResponseWriter, r *http.Request) {
	criteria := criteriaFromQuery(r.URL.Query())

	capture := lookup.NewCapture()
	cards, err := s.controller(capture).Search(r.Context(), criteria)
	if err != nil {
		msg := err.Error()
		if st, ok := capture.Status(); ok {
			msg = st.Message
		}
		writeJSON(w, apiStatus(err), apiError{Status: "error", Message: msg})
		return
	}
	writeJSON(w, http.StatusOK, output.NewScoredCards(cards))
}

// handleAPICard returns one card with its score
func (s *Server) handleAPICard(w http.ResponseWriter, r *http.Request) {
	cardNo := chi.URLParam(r, "cardNo")

	c, err := s.controller(lookup.NewCapture()).Find(r.Context(), cardNo)
	if err != nil {
		writeJSON(w, apiStatus(err), apiError{Status: "error", Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, output.NewScoredCard(c))
}

// apiStatus maps controller errors to HTTP status codes
func apiStatus(err error) int {
	switch {
	case errors.Is(err, lookup.ErrCardNotFound):
		return http.StatusNotFound
	case errors.Is(err, backend.ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = output.JSONTo(w, v)
}
