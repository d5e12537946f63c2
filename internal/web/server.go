// Package web exposes the HTTP surface of the tracker: JSON endpoints for
// the portfolio pipeline, CSV exports and an SSE stream of valuation
// records.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/akarpovich/cryptofolio/internal/auth"
	"github.com/akarpovich/cryptofolio/internal/domain"
	"github.com/akarpovich/cryptofolio/internal/export"
	"github.com/akarpovich/cryptofolio/internal/portfolio"
)

const (
	streamPollInterval = 2 * time.Second
	defaultHolder      = "default"
)

type valuationReader interface {
	RecordsAfter(index uint64) ([]domain.ValuationRecordEntry, error)
}

// Server exposes HTTP endpoints serving the HTML UI, the portfolio API and
// an SSE stream.
type Server struct {
	Addr       string
	Portfolio  *portfolio.Service
	Valuations valuationReader
	Users      *auth.Registry
	Logger     *zap.Logger
}

// NewServer creates a new web server instance.
func NewServer(addr string, svc *portfolio.Service, valuations valuationReader, users *auth.Registry, logger *zap.Logger) *Server {
	return &Server{Addr: addr, Portfolio: svc, Valuations: valuations, Users: users, Logger: logger}
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/portfolio", s.handlePortfolio)
	mux.HandleFunc("/portfolio/stream", s.handleStream)
	mux.HandleFunc("/transactions", s.handleTransactions)
	mux.HandleFunc("/portfolio/realized", s.handleRealizedPL)
	mux.HandleFunc("/export/portfolio.csv", s.handleExportPortfolio)
	mux.HandleFunc("/export/transactions.csv", s.handleExportTransactions)
	mux.HandleFunc("/export/report.txt", s.handleExportReport)
	mux.HandleFunc("/auth/register", s.handleRegister)
	mux.HandleFunc("/auth/login", s.handleLogin)

	server := &http.Server{
		Addr:              s.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func holderParam(r *http.Request) string {
	holder := r.URL.Query().Get("holder")
	if holder == "" {
		return defaultHolder
	}
	return holder
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	record, err := s.Portfolio.Snapshot(r.Context(), holderParam(r))
	if err != nil {
		s.Logger.Error("compute portfolio snapshot", zap.Error(err))
		http.Error(w, "failed to compute portfolio snapshot", http.StatusBadGateway)
		return
	}

	writeJSON(w, record)
}

type addTransactionRequest struct {
	Holder    string `json:"holder"`
	AssetID   string `json:"asset_id"`
	Side      string `json:"side"`
	Amount    string `json:"amount"`
	UnitPrice string `json:"unit_price"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		txs, err := s.Portfolio.Transactions(holderParam(r))
		if err != nil {
			s.Logger.Error("read transactions", zap.Error(err))
			http.Error(w, "failed to read transactions", http.StatusInternalServerError)
			return
		}
		writeJSON(w, txs)
	case http.MethodPost:
		var req addTransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		amount, err := decimal.NewFromString(req.Amount)
		if err != nil {
			http.Error(w, "invalid amount", http.StatusBadRequest)
			return
		}
		unitPrice, err := decimal.NewFromString(req.UnitPrice)
		if err != nil {
			http.Error(w, "invalid unit price", http.StatusBadRequest)
			return
		}

		tx, err := domain.NewTransaction(req.AssetID, domain.Side(req.Side), amount, unitPrice, time.Now())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		holder := req.Holder
		if holder == "" {
			holder = defaultHolder
		}

		if err := s.Portfolio.AddTransaction(holder, tx); err != nil {
			if errors.Is(err, domain.ErrInvalidTransaction) {
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
				return
			}
			s.Logger.Error("record transaction", zap.Error(err))
			http.Error(w, "failed to record transaction", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusCreated)
		writeJSON(w, tx)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleExportPortfolio(w http.ResponseWriter, r *http.Request) {
	record, err := s.Portfolio.Snapshot(r.Context(), holderParam(r))
	if err != nil {
		s.Logger.Error("compute portfolio snapshot", zap.Error(err))
		http.Error(w, "failed to compute portfolio snapshot", http.StatusBadGateway)
		return
	}

	data, err := export.PortfolioCSV(record.Snapshot)
	if err != nil {
		s.Logger.Error("render portfolio csv", zap.Error(err))
		http.Error(w, "failed to render csv", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="portfolio.csv"`)
	_, _ = w.Write(data)
}

func (s *Server) handleRealizedPL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	realized, err := s.Portfolio.RealizedPL(holderParam(r))
	if err != nil {
		s.Logger.Error("compute realized P/L", zap.Error(err))
		http.Error(w, "failed to compute realized P/L", http.StatusInternalServerError)
		return
	}

	writeJSON(w, realized)
}

func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	record, err := s.Portfolio.Snapshot(r.Context(), holderParam(r))
	if err != nil {
		s.Logger.Error("compute portfolio snapshot", zap.Error(err))
		http.Error(w, "failed to compute portfolio snapshot", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="portfolio_report.txt"`)
	fmt.Fprint(w, export.Report(record, time.Now()))
}

func (s *Server) handleExportTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.Portfolio.Transactions(holderParam(r))
	if err != nil {
		s.Logger.Error("read transactions", zap.Error(err))
		http.Error(w, "failed to read transactions", http.StatusInternalServerError)
		return
	}

	data, err := export.TransactionsCSV(txs)
	if err != nil {
		s.Logger.Error("render transactions csv", zap.Error(err))
		http.Error(w, "failed to render csv", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
	_, _ = w.Write(data)
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if s.Valuations == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "valuation store not available")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// send a comment heartbeat every 30s so proxies keep connection
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	pollTicker := time.NewTicker(streamPollInterval)
	defer pollTicker.Stop()

	lastIndex := uint64(0)
	sendRecords := func() error {
		entries, err := s.Valuations.RecordsAfter(lastIndex)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			payload, err := json.Marshal(entry.Record)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "event: valuation\n")
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
			lastIndex = entry.Index
		}
		return nil
	}

	if err := sendRecords(); err != nil {
		http.Error(w, "failed to load valuation records", http.StatusInternalServerError)
		s.Logger.Error("valuation stream initial load", zap.Error(err))
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		case <-pollTicker.C:
			if err := sendRecords(); err != nil {
				s.Logger.Warn("valuation stream poll", zap.Error(err))
			}
		}
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.Users == nil {
		http.Error(w, "user registry not available", http.StatusServiceUnavailable)
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.Users.Register(req.Username, req.Password); err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.Users == nil {
		http.Error(w, "user registry not available", http.StatusServiceUnavailable)
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.Users.Authenticate(req.Username, req.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			http.Error(w, "wrong username or password", http.StatusUnauthorized)
			return
		}
		s.Logger.Error("authenticate user", zap.Error(err))
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
