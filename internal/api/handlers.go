package api

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"salaryboard/internal/dashboard"
	"salaryboard/internal/engine"
	"salaryboard/internal/models"
	"salaryboard/internal/summarize"
)

type Handler struct {
	store      atomic.Pointer[engine.ColumnStore]
	dashboards *dashboard.Registry
	summarizer *summarize.Service
	logger     *zap.Logger
}

// NewHandler serves the given dashboards. The store may be nil; until SetStore
// is called every data endpoint answers 503 (loading).
func NewHandler(store *engine.ColumnStore, dashboards *dashboard.Registry, summarizer *summarize.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{dashboards: dashboards, summarizer: summarizer, logger: logger}
	if store != nil {
		h.store.Store(store)
	}
	return h
}

// SetStore publishes the loaded dataset. It is called once after startup.
func (h *Handler) SetStore(store *engine.ColumnStore) {
	h.store.Store(store)
}

func (h *Handler) RegisterRoutes(e *echo.Echo, summarizeLimiter echo.MiddlewareFunc) {
	e.GET("/healthz", h.Health)

	api := e.Group("/api")
	api.GET("/options", h.GetOptions, h.requireStore)
	api.GET("/dashboards", h.ListDashboards)
	api.GET("/dashboards/:name/chart", h.GetChart, h.requireStore)
	api.GET("/series", h.GetSeries, h.requireStore)
	api.GET("/series.arrow", h.GetSeriesArrow, h.requireStore)

	if summarizeLimiter != nil {
		api.POST("/summarize", h.Summarize, summarizeLimiter)
	} else {
		api.POST("/summarize", h.Summarize)
	}
}

func (h *Handler) requireStore(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if h.store.Load() == nil {
			return writeError(c, http.StatusServiceUnavailable, CodeLoading, "dataset is still loading")
		}
		return next(c)
	}
}

// --- HANDLERS ---
func getPaginationParams(c echo.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

// selectionFrom reads year/size/level, falling back to defaults for
// controls the caller left out.
func selectionFrom(c echo.Context, defaults models.Selection) (models.Selection, error) {
	year := c.QueryParam("year")
	if year == "" {
		year = strconv.Itoa(defaults.Year)
	}
	size := c.QueryParam("size")
	if size == "" {
		size = defaults.CompanySize
	}
	level := c.QueryParam("level")
	if level == "" {
		level = defaults.ExperienceLevel
	}
	return engine.ParseSelection(year, size, level)
}

func (h *Handler) Health(c echo.Context) error {
	store := h.store.Load()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "ok",
		"ready":  store != nil,
		"rows":   store.Len(),
	})
}

func (h *Handler) GetOptions(c echo.Context) error {
	return c.JSON(http.StatusOK, engine.Options(h.store.Load()))
}

func (h *Handler) ListDashboards(c echo.Context) error {
	return c.JSON(http.StatusOK, h.dashboards.List())
}

func (h *Handler) GetChart(c echo.Context) error {
	v, err := h.dashboards.Lookup(c.Param("name"))
	if err != nil {
		return writeError(c, http.StatusNotFound, CodeUnknownDashboard, err.Error())
	}
	sel, err := selectionFrom(c, v.Defaults())
	if err != nil {
		return writeError(c, http.StatusBadRequest, CodeBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, dashboard.Render(h.store.Load(), v, sel))
}

// GetSeries returns the full ranked series, paginated. Leaving out level
// queries across all experience levels.
func (h *Handler) GetSeries(c echo.Context) error {
	sel, err := selectionFrom(c, models.Selection{Year: engine.SupportedYears[0], CompanySize: engine.CompanySizes[0]})
	if err != nil {
		return writeError(c, http.StatusBadRequest, CodeBadRequest, err.Error())
	}

	series := engine.Query(h.store.Load(), sel)
	total := len(series)
	limit, offset := getPaginationParams(c, total)

	page := models.SeriesPage{Data: models.Series{}, Total: total, Limit: limit, Offset: offset}
	if offset < total {
		end := offset + limit
		if end > total {
			end = total
		}
		page.Data = series[offset:end]
	}
	return c.JSON(http.StatusOK, page)
}

func (h *Handler) GetSeriesArrow(c echo.Context) error {
	sel, err := selectionFrom(c, models.Selection{Year: engine.SupportedYears[0], CompanySize: engine.CompanySizes[0]})
	if err != nil {
		return writeError(c, http.StatusBadRequest, CodeBadRequest, err.Error())
	}
	limit, _ := getPaginationParams(c, 0)
	series := engine.Top(engine.Query(h.store.Load(), sel), limit)

	var buf bytes.Buffer
	if err := engine.WriteArrow(&buf, series); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, engine.ArrowContentType, buf.Bytes())
}

func (h *Handler) Summarize(c echo.Context) error {
	var req models.SummarizeRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	res, err := h.summarizer.Summarize(c.Request().Context(), req.Text, summarize.Params{MaxLength: req.MaxLength, Beams: req.Beams})
	switch {
	case err == nil, errors.Is(err, summarize.ErrEmptyInput):
		return c.JSON(http.StatusOK, models.SummarizeResponse{Summary: res.Summary, Status: res.Status})
	case errors.Is(err, summarize.ErrInvalidParams):
		return writeError(c, http.StatusBadRequest, CodeBadRequest, err.Error())
	case errors.Is(err, summarize.ErrDisabled):
		return writeError(c, http.StatusServiceUnavailable, CodeDisabled, "summarization is not configured")
	default:
		h.logger.Warn("summarize request failed", zap.Error(err))
		return writeError(c, http.StatusBadGateway, CodeUpstream, "summarization failed")
	}
}
