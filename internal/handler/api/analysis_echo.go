package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"SentimentPulse/internal/display"
	"SentimentPulse/internal/domain/models"
	domrepo "SentimentPulse/internal/domain/repository"
	icache "SentimentPulse/internal/service/cache"
	"SentimentPulse/internal/usecase"
	xhttp "SentimentPulse/pkg/http"
	xlogger "SentimentPulse/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	sourcePage = "page"
	sourceAPI  = "api"
)

// AnalysisHandler serves the dashboard page and the JSON analysis endpoint.
type AnalysisHandler struct {
	logger   *xlogger.Logger
	trigger  *usecase.DisplayTrigger
	runs     domrepo.RunPublisher
	cache    icache.BytesCache
	cacheTTL time.Duration
	limit    echo.MiddlewareFunc
}

func NewAnalysisHandler(logger *xlogger.Logger, trigger *usecase.DisplayTrigger, runs domrepo.RunPublisher) *AnalysisHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &AnalysisHandler{logger: logger, trigger: trigger, runs: runs}
}

// SetCache enables caching of rendered pages. Output depends only on presence,
// so one entry per outcome is enough.
func (h *AnalysisHandler) SetCache(c icache.BytesCache, ttl time.Duration) {
	h.cache = c
	h.cacheTTL = ttl
}

// SetRateLimit guards the POST routes.
func (h *AnalysisHandler) SetRateLimit(mw echo.MiddlewareFunc) { h.limit = mw }

func (h *AnalysisHandler) RegisterRoutes(e *echo.Echo) {
	var guard []echo.MiddlewareFunc
	if h.limit != nil {
		guard = append(guard, h.limit)
	}
	e.GET("/", h.Index)
	e.GET("/healthz", h.Health)
	e.POST("/analyze", h.Analyze, guard...)
	e.POST("/api/analysis", h.Analysis, guard...)
}

// Index renders the dashboard with results hidden.
func (h *AnalysisHandler) Index(c echo.Context) error {
	ctx := c.Request().Context()
	if b, ok := h.cached(ctx, "page:index"); ok {
		return xhttp.HTMLResponse(c, http.StatusOK, b)
	}
	page, err := display.NewPage(nil)
	if err != nil {
		h.logger.Error("index page parse error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("page unavailable").WithError(err))
	}
	body, err := page.HTML()
	if err != nil {
		h.logger.Error("index page render error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("page unavailable").WithError(err))
	}
	h.store(ctx, "page:index", []byte(body))
	return xhttp.HTMLResponse(c, http.StatusOK, []byte(body))
}

// Analyze handles the dashboard form post and renders the updated page.
// The trigger runs once per request against a Memory display; the page is
// rendered from that state unless a cached render for the outcome exists.
func (h *AnalysisHandler) Analyze(c echo.Context) error {
	ctx := c.Request().Context()
	counts, err := uploadCounts(c)
	if err != nil {
		h.logger.Warn("analyze bad form", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("invalid multipart form").WithError(err))
	}

	mem := display.NewMemory(counts)
	outcome := models.OutcomeResults
	status := http.StatusOK
	if err := h.trigger.RunAnalysis(ctx, mem); err != nil {
		if !errors.Is(err, usecase.ErrMissingInput) {
			h.logger.Error("analyze usecase error", xlogger.Error(err))
			return xhttp.AppErrorResponse(c, xhttp.InternalError("analysis failed").WithError(err))
		}
		outcome = models.OutcomeMissingInput
		status = http.StatusBadRequest
	}
	presence := usecase.Presence(mem)
	defer h.publish(ctx, presence, outcome, sourcePage)

	key := "page:" + outcome
	if b, ok := h.cached(ctx, key); ok {
		return xhttp.HTMLResponse(c, status, b)
	}

	page, err := display.NewPage(counts)
	if err != nil {
		h.logger.Error("analyze page parse error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("page unavailable").WithError(err))
	}
	mem.ApplyTo(page)
	body, err := page.HTML()
	if err != nil {
		h.logger.Error("analyze page render error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("page unavailable").WithError(err))
	}

	h.store(ctx, key, []byte(body))
	return xhttp.HTMLResponse(c, status, []byte(body))
}

// Analysis is the JSON variant of Analyze.
func (h *AnalysisHandler) Analysis(c echo.Context) error {
	req := &models.AnalysisRequest{}
	if verr := xhttp.ReadAndValidateQuery(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	ctx := c.Request().Context()
	counts, err := uploadCounts(c)
	if err != nil {
		h.logger.Warn("analysis bad form", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("invalid multipart form").WithError(err))
	}

	mem := display.NewMemory(counts)
	err = h.trigger.RunAnalysis(ctx, mem)
	var missing *usecase.MissingInputError
	switch {
	case errors.As(err, &missing):
		h.publish(ctx, missing.Presence, models.OutcomeMissingInput, sourceAPI)
		return xhttp.AppErrorResponse(c, missingInputError(missing.Presence))
	case err != nil:
		h.logger.Error("analysis usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("analysis failed").WithError(err))
	}

	view := mem.View(req.Format == "compact")
	h.publish(ctx, view.Presence, models.OutcomeResults, sourceAPI)
	return xhttp.SuccessResponse(c, view)
}

func (h *AnalysisHandler) Health(c echo.Context) error {
	if h.cache != nil {
		if err := h.cache.Ping(c.Request().Context()); err != nil {
			h.logger.Warn("health cache ping failed", xlogger.Error(err))
			return xhttp.DataResponse(c, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "cache": err.Error()})
		}
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *AnalysisHandler) cached(ctx context.Context, key string) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}
	b, ok, err := h.cache.GetBytes(ctx, key)
	if err != nil {
		h.logger.Warn("cache get error", xlogger.String("key", key), xlogger.Error(err))
		return nil, false
	}
	if ok {
		h.logger.Debug("cache hit", xlogger.String("key", key))
	}
	return b, ok
}

func (h *AnalysisHandler) store(ctx context.Context, key string, b []byte) {
	if h.cache == nil {
		return
	}
	if err := h.cache.SetBytes(ctx, key, b, h.cacheTTL); err != nil {
		h.logger.Warn("cache set error", xlogger.String("key", key), xlogger.Error(err))
	}
}

// publish never fails the request; event delivery is best effort.
func (h *AnalysisHandler) publish(ctx context.Context, p models.InputPresence, outcome, source string) {
	if h.runs == nil {
		return
	}
	run := &models.AnalysisRun{
		ID:             uuid.NewString(),
		Outcome:        outcome,
		SentimentFiles: p.SentimentFiles,
		TraderFiles:    p.TraderFiles,
		Source:         source,
		At:             time.Now().UTC(),
	}
	if err := h.runs.PublishRun(ctx, run); err != nil {
		h.logger.Warn("run publish error", xlogger.String("run_id", run.ID), xlogger.Error(err))
	}
}

func missingInputError(p models.InputPresence) *xhttp.AppError {
	return xhttp.NewAppError("ERR_MISSING_INPUT", "", models.MissingInputMessage, http.StatusBadRequest).
		WithParam("sentiment_files", p.SentimentFiles).
		WithParam("trader_files", p.TraderFiles)
}
