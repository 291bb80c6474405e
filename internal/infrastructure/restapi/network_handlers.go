package restapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"network_registry/internal/app/port"
	"network_registry/internal/app/service"
	"network_registry/internal/domain/entity"
)

// NetworkHandler serves the network metadata and resolution endpoints.
type NetworkHandler struct {
	logger    port.Logger
	resolver  port.NetworkResolver
	preferred map[string][]string // configured preferred urls per identifier
}

// NewNetworkHandler creates a NetworkHandler. preferredByID supplies the
// configured preferred endpoints used when a request carries no rpc
// parameters of its own; nil is fine.
func NewNetworkHandler(log port.Logger, resolver port.NetworkResolver, preferredByID map[string][]string) *NetworkHandler {
	return &NetworkHandler{logger: log, resolver: resolver, preferred: preferredByID}
}

// ListNetworksHandler returns every cached chain record.
// GET /api/v1/networks
func (h *NetworkHandler) ListNetworksHandler(c *gin.Context) {
	records := h.resolver.Known()
	c.JSON(http.StatusOK, gin.H{
		"count":    len(records),
		"networks": records,
	})
}

// GetNetworkConfigHandler resolves a working endpoint for one network.
// GET /api/v1/networks/:identifier/config?rpc=<url>&rpc=<url>&only_preferred=true
//
// A resolution miss is a normal outcome, not a server fault: unknown networks
// map to 404, "nothing reachable right now" to a retryable 503.
func (h *NetworkHandler) GetNetworkConfigHandler(c *gin.Context) {
	identifier := c.Param("identifier")
	preferred := c.QueryArray("rpc")
	onlyPreferred := c.Query("only_preferred") == "true"

	if len(preferred) == 0 {
		preferred = h.preferred[identifier]
	}

	cfg, err := h.resolver.GetNetworkConfig(c.Request.Context(), identifier, preferred, onlyPreferred)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrUnknownNetwork):
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown network", "identifier": identifier})
		case errors.Is(err, entity.ErrNoPreferredEndpoints):
			c.JSON(http.StatusBadRequest, gin.H{"error": "only_preferred requires at least one rpc parameter"})
		case errors.Is(err, entity.ErrNoHealthyEndpoint):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":     "no working rpc endpoint for this network right now",
				"retryable": true,
			})
		default:
			h.logger.Error("Unexpected resolution failure", "identifier", identifier, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	if err := service.ValidateConfig(cfg, "rest api resolution"); err != nil {
		h.logger.Error("Resolved config failed validation", "identifier", identifier, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, cfg)
}
