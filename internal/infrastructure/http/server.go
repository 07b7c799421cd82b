package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"btcanalytics-service/internal/application"
	"btcanalytics-service/internal/domain"

	"go.uber.org/zap"
)

const (
	msgFetchFailed   = "Failed to fetch data from external API"
	msgInternal      = "Internal server error"
	msgHistoryFailed = "Failed to fetch historical data"
	msgStatsFailed   = "Failed to fetch statistics"
	msgNotReady      = "store not ready"
)

type Server struct {
	svc  *application.AnalyticsService
	ping func(context.Context) error
	log  *zap.Logger
}

func NewServer(svc *application.AnalyticsService, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{svc: svc, ping: svc.Ping, log: log}
}

// SetReadyCheck replaces the /readyz probe, which defaults to a store ping.
func (s *Server) SetReadyCheck(fn func(context.Context) error) { s.ping = fn }

type currentDTO struct {
	Price          float64 `json:"price"`
	MarketCap      int64   `json:"market_cap"`
	Volume24h      int64   `json:"volume_24h"`
	PriceChange24h float64 `json:"price_change_24h"`
	LastUpdated    string  `json:"last_updated"`
	Source         string  `json:"source"`
}

type historyItemDTO struct {
	ID             int64   `json:"id"`
	Timestamp      string  `json:"timestamp"`
	Price          float64 `json:"price"`
	MarketCap      int64   `json:"market_cap"`
	Volume24h      int64   `json:"volume_24h"`
	PriceChange24h float64 `json:"price_change_24h"`
}

type statsDTO struct {
	TotalRecords    int64   `json:"total_records"`
	LatestTimestamp *string `json:"latest_timestamp"`
	OldestTimestamp *string `json:"oldest_timestamp"`
	DatabaseStatus  string  `json:"database_status"`
}

type statusDTO struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type errorDTO struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

func (s *Server) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statusDTO{Status: "healthy", Message: "Bitcoin Analytics API is running"})
}

// GetData performs one ingest and reports what was stored.
func (s *Server) GetData(w http.ResponseWriter, r *http.Request) {
	cur, err := s.svc.IngestOnce(r.Context())
	if err != nil {
		if errors.Is(err, application.ErrFetch) {
			writeError(w, http.StatusServiceUnavailable, msgFetchFailed, err)
			return
		}
		s.log.Error("http.data_failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgInternal, err)
		return
	}
	writeJSON(w, http.StatusOK, currentDTO{
		Price:          cur.Price,
		MarketCap:      cur.MarketCap,
		Volume24h:      cur.Volume24h,
		PriceChange24h: cur.PriceChange24h,
		LastUpdated:    formatTime(cur.LastUpdated),
		Source:         cur.Source,
	})
}

func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request) {
	rows, err := s.svc.History(r.Context())
	if err != nil {
		s.log.Error("http.history_failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgHistoryFailed, err)
		return
	}
	out := make([]historyItemDTO, 0, len(rows))
	for _, o := range rows {
		out = append(out, historyItemDTO{
			ID:             o.ID,
			Timestamp:      formatTime(o.ObservedAt),
			Price:          o.Price,
			MarketCap:      o.MarketCap,
			Volume24h:      o.Volume24h,
			PriceChange24h: o.PriceChange24h,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Stats(r.Context())
	if err != nil {
		s.log.Error("http.stats_failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgStatsFailed, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatsDTO(st))
}

func (s *Server) Readyz(w http.ResponseWriter, r *http.Request) {
	if s.ping != nil {
		if err := s.ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, msgNotReady, err)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("READY"))
}

func toStatsDTO(st domain.Stats) statsDTO {
	out := statsDTO{TotalRecords: st.TotalRecords, DatabaseStatus: st.DatabaseStatus}
	if st.LatestTimestamp != nil {
		v := formatTime(*st.LatestTimestamp)
		out.LatestTimestamp = &v
	}
	if st.OldestTimestamp != nil {
		v := formatTime(*st.OldestTimestamp)
		out.OldestTimestamp = &v
	}
	return out
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

// writeJSON encodes before writing the header so an unencodable value turns
// into a 500 instead of a 200 with an empty body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		buf.Reset()
		status = http.StatusInternalServerError
		_ = json.NewEncoder(&buf).Encode(errorDTO{Error: msgInternal, Details: err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	body := errorDTO{Error: msg}
	if err != nil {
		body.Details = err.Error()
	}
	writeJSON(w, status, body)
}
