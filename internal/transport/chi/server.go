package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/lessonqa/internal/domain"
	domusage "github.com/kailas-cloud/lessonqa/internal/domain/usage"
	healthuc "github.com/kailas-cloud/lessonqa/internal/usecase/health"
)

// Answerer resolves a question into a user-facing answer string.
type Answerer interface {
	Answer(ctx context.Context, question string) string
	AnswerWithoutAI(ctx context.Context, question string) string
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// UsageReporter reports LLM token usage for a period.
type UsageReporter interface {
	GetReport(ctx context.Context, period domusage.Period) domusage.Report
}

// QuestionRequest is the body of both ask routes.
type QuestionRequest struct {
	Question string `json:"question"`
}

// AnswerResponse is returned by both ask routes. Failures are answered in-band.
type AnswerResponse struct {
	Answer string `json:"answer"`
}

// MessageResponse is returned by the root route.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status      string            `json:"status"`
	Checks      map[string]string `json:"checks"`
	DatasetSize int               `json:"dataset_size"`
}

// UsageResponse is returned by GET /usage.
type UsageResponse struct {
	Period        string       `json:"period"`
	PeriodStartAt time.Time    `json:"period_start_at"`
	PeriodEndAt   time.Time    `json:"period_end_at"`
	Backend       string       `json:"backend"`
	Tokens        int64        `json:"tokens"`
	Budget        BudgetStatus `json:"budget"`
}

// BudgetStatus is the token budget part of UsageResponse. Limit 0 and remaining -1 mean unlimited.
type BudgetStatus struct {
	TokensLimit     int64     `json:"tokens_limit"`
	TokensRemaining int64     `json:"tokens_remaining"`
	IsExhausted     bool      `json:"is_exhausted"`
	ResetsAt        time.Time `json:"resets_at"`
}

// ErrorResponse is returned for malformed requests.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CORSPolicy is the cross-origin policy of the API.
type CORSPolicy struct {
	AllowedOrigins   []string
	AllowCredentials bool
}

// Server serves the question answering HTTP API.
type Server struct {
	answers Answerer
	health  HealthChecker
	usage   UsageReporter
	cors    CORSPolicy
	welcome string
	logger  *zap.Logger
}

// NewServer creates an HTTP API server. Any origin may call it, without credentials.
func NewServer(answers Answerer, health HealthChecker, welcome string, logger *zap.Logger) *Server {
	return &Server{
		answers: answers,
		health:  health,
		cors:    CORSPolicy{AllowedOrigins: []string{"*"}},
		welcome: welcome,
		logger:  logger,
	}
}

// WithCORS replaces the cross-origin policy. An empty origin list keeps the current one.
func (s *Server) WithCORS(p CORSPolicy) *Server {
	if len(p.AllowedOrigins) > 0 {
		s.cors = p
	}
	return s
}

// WithUsage enables GET /usage.
func (s *Server) WithUsage(u UsageReporter) *Server {
	s.usage = u
	return s
}

// Root handles GET /.
func (s *Server) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, MessageResponse{Message: s.welcome})
}

// Ask handles POST /ask.
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeQuestion(w, r)
	if !ok {
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	answer := s.answers.Answer(ctx, req.Question)

	setUsageHeaders(w, usage)
	writeJSON(w, http.StatusOK, AnswerResponse{Answer: answer})
}

// AskWithoutAI handles POST /ask_without_ai.
func (s *Server) AskWithoutAI(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeQuestion(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, AnswerResponse{Answer: s.answers.AnswerWithoutAI(r.Context(), req.Question)})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:      string(report.Status),
		Checks:      checks,
		DatasetSize: report.DatasetSize,
	})
}

// GetUsage handles GET /usage?period=day|month.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	if s.usage == nil {
		writeError(w, http.StatusNotFound, "not_found", "Usage reporting is disabled")
		return
	}

	period, err := domusage.ParsePeriod(r.URL.Query().Get("period"))
	if errors.Is(err, domusage.ErrInvalidPeriod) {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	report := s.usage.GetReport(r.Context(), period)
	b := report.Budget()
	writeJSON(w, http.StatusOK, UsageResponse{
		Period:        string(report.Period()),
		PeriodStartAt: time.UnixMilli(report.PeriodStart()).UTC(),
		PeriodEndAt:   time.UnixMilli(report.PeriodEnd()).UTC(),
		Backend:       report.Backend(),
		Tokens:        report.Tokens(),
		Budget: BudgetStatus{
			TokensLimit:     b.TokensLimit(),
			TokensRemaining: b.TokensRemaining(),
			IsExhausted:     b.IsExhausted(),
			ResetsAt:        time.UnixMilli(b.ResetsAt()).UTC(),
		},
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func decodeQuestion(w http.ResponseWriter, r *http.Request) (QuestionRequest, bool) {
	var req QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return QuestionRequest{}, false
	}
	return req, true
}

func setUsageHeaders(w http.ResponseWriter, usage *domain.LLMUsage) {
	if usage != nil && usage.Used {
		w.Header().Set("X-LLM-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}
