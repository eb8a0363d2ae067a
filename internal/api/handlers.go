package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/TomMakinMPF/fifoinvestor/internal/model"
	"github.com/TomMakinMPF/fifoinvestor/internal/report"
	"github.com/TomMakinMPF/fifoinvestor/internal/scanner"
	"github.com/TomMakinMPF/fifoinvestor/internal/universe"
)

type scanRequest struct {
	Groups []string `json:"groups"`
}

type rowResponse struct {
	Ticker   string  `json:"ticker"`
	Name     string  `json:"name"`
	Group    string  `json:"group"`
	Date     string  `json:"date"`
	Open     float64 `json:"open"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Close    float64 `json:"close"`
	PercentK float64 `json:"percent_k"`
	PercentD float64 `json:"percent_d"`
	Signal   string  `json:"signal"`
	Buy      bool    `json:"buy"`
}

type scanResponse struct {
	Scanned  int                 `json:"scanned"`
	Rows     []rowResponse       `json:"rows"`
	Excluded []scanner.Exclusion `json:"excluded"`
}

func (s *Server) handleGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := universe.Groups(s.tickersDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list groups")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"groups": groups})
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, scanned, err := s.runScan(r, req.Groups)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := scanResponse{Scanned: scanned, Rows: []rowResponse{}, Excluded: result.Excluded}
	for _, row := range result.Rows {
		resp.Rows = append(resp.Rows, toRowResponse(row))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleScanCSV(w http.ResponseWriter, r *http.Request) {
	var groups []string
	for _, g := range strings.Split(r.URL.Query().Get("groups"), ",") {
		if g = strings.TrimSpace(g); g != "" {
			groups = append(groups, g)
		}
	}
	result, _, err := s.runScan(r, groups)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.Filename(time.Now())+`"`)
	if err := report.WriteCSV(w, result.Rows); err != nil {
		s.logger.Error().Err(err).Msg("write csv response")
	}
}

func (s *Server) runScan(r *http.Request, groups []string) (*scanner.Result, int, error) {
	var requests []scanner.Request
	for _, group := range groups {
		tickers, err := universe.Load(s.tickersDir, group)
		if err != nil {
			return nil, 0, err
		}
		for _, t := range tickers {
			requests = append(requests, scanner.Request{Symbol: t, Group: group})
		}
	}
	return s.scanner.Scan(r.Context(), requests), len(requests), nil
}

func toRowResponse(row model.ReportRow) rowResponse {
	return rowResponse{
		Ticker:   row.Ticker,
		Name:     row.Name,
		Group:    row.Group,
		Date:     row.Date.Format("2006-01-02"),
		Open:     row.Open,
		High:     row.High,
		Low:      row.Low,
		Close:    row.Close,
		PercentK: row.PercentK,
		PercentD: row.PercentD,
		Signal:   string(row.Signal),
		Buy:      row.Buy,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
