package restapi

import (
	"errors"
	"net/http"

	"issuance_tracker/internal/app/port"
	"issuance_tracker/internal/app/registry"
	"issuance_tracker/internal/domain/entity"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdapterSummary describes one registered adapter.
type AdapterSummary struct {
	ID       string            `json:"id"`
	Metadata registry.Metadata `json:"metadata"`
	Queries  []string          `json:"queries"`
	HasIcon  bool              `json:"hasIcon"`
}

// QueryResponse is the result of one query execution.
type QueryResponse struct {
	ID    string  `json:"id"`
	Query string  `json:"query"`
	Value float64 `json:"value"`
}

// IconResponse carries a resolved icon.
type IconResponse struct {
	ID   string `json:"id"`
	Icon string `json:"icon"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AdapterHandler обрабатывает HTTP запросы к зарегистрированным адаптерам.
type AdapterHandler struct {
	registry *registry.Registry
	networks port.NetworkDefinitionProvider
	logger   *zap.Logger
}

// NewAdapterHandler создает новый экземпляр AdapterHandler.
func NewAdapterHandler(reg *registry.Registry, networks port.NetworkDefinitionProvider, logger *zap.Logger) *AdapterHandler {
	return &AdapterHandler{
		registry: reg,
		networks: networks,
		logger:   logger.Named("AdapterHandler"),
	}
}

// ListAdaptersHandler returns all registrations.
func (h *AdapterHandler) ListAdaptersHandler(c *gin.Context) {
	regs := h.registry.List()
	out := make([]AdapterSummary, 0, len(regs))
	for _, reg := range regs {
		out = append(out, summarize(reg))
	}
	c.JSON(http.StatusOK, out)
}

// GetAdapterHandler returns one registration.
func (h *AdapterHandler) GetAdapterHandler(c *gin.Context) {
	reg, ok := h.registry.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "adapter not found: " + c.Param("id")})
		return
	}
	c.JSON(http.StatusOK, summarize(reg))
}

// RunQueryHandler executes one query of an adapter.
func (h *AdapterHandler) RunQueryHandler(c *gin.Context) {
	id, query := c.Param("id"), c.Param("query")

	value, err := h.registry.Execute(c.Request.Context(), id, query)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("Query failed", zap.String("adapter", id), zap.String("query", query), zap.Error(err))
		} else {
			h.logger.Warn("Query rejected", zap.String("adapter", id), zap.String("query", query), zap.Error(err))
		}
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, QueryResponse{ID: id, Query: query, Value: value})
}

// GetIconHandler resolves the icon of an adapter.
func (h *AdapterHandler) GetIconHandler(c *gin.Context) {
	id := c.Param("id")
	reg, ok := h.registry.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "adapter not found: " + id})
		return
	}
	if reg.Metadata.Icon == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "adapter has no icon: " + id})
		return
	}

	icon, err := reg.Metadata.Icon(c.Request.Context())
	if err != nil {
		h.logger.Error("Icon load failed", zap.String("adapter", id), zap.Error(err))
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, IconResponse{ID: id, Icon: icon})
}

// ListNetworksHandler returns the known network definitions.
func (h *AdapterHandler) ListNetworksHandler(c *gin.Context) {
	if h.networks == nil {
		c.JSON(http.StatusOK, []entity.NetworkDefinition{})
		return
	}
	c.JSON(http.StatusOK, h.networks.GetAllNetworkDefinitions())
}

func summarize(reg registry.Registration) AdapterSummary {
	return AdapterSummary{
		ID:       reg.ID,
		Metadata: reg.Metadata,
		Queries:  reg.QueryNames(),
		HasIcon:  reg.Metadata.Icon != nil,
	}
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, registry.ErrAdapterNotFound), errors.Is(err, registry.ErrQueryNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrDivisionByZero):
		return http.StatusUnprocessableEntity
	case errors.Is(err, entity.ErrConfiguration):
		return http.StatusInternalServerError
	case errors.Is(err, entity.ErrDataUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
