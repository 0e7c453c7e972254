package restapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"portfolio_oracle/internal/app/port"
	"portfolio_oracle/internal/domain/entity"

	"github.com/gin-gonic/gin"
)

// DefaultChainID is used when the chainId query parameter is omitted.
const DefaultChainID uint64 = 7001

const (
	msgAddressRequired = "Address is required"
	msgInvalidAddress  = "Invalid address"
	msgUnsupported     = "Unsupported chain"
	msgPortfolioFailed = "Failed to fetch portfolio data"
)

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// PortfolioHandler обрабатывает HTTP запросы, связанные с портфелями.
type PortfolioHandler struct {
	portfolioService port.PortfolioService
	logger           port.Logger
}

// NewPortfolioHandler создает новый экземпляр PortfolioHandler.
func NewPortfolioHandler(ps port.PortfolioService, logger port.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: ps,
		logger:           logger,
	}
}

// GetPortfolioHandler handles GET /api/portfolio?address=&chainId=.
func (h *PortfolioHandler) GetPortfolioHandler(c *gin.Context) {
	address := strings.TrimSpace(c.Query("address"))
	if address == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgAddressRequired})
		return
	}

	chainID := DefaultChainID
	if raw := c.Query("chainId"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			// нечисловой chainId не может быть поддерживаемой сетью
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgUnsupported})
			return
		}
		chainID = parsed
	}

	portfolio, err := h.portfolioService.GetPortfolio(c.Request.Context(), address, chainID)
	if err != nil {
		if entity.IsValidation(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: validationMessage(err)})
			return
		}
		h.logger.Error("Portfolio fetch failed", "address", address, "chain_id", chainID, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgPortfolioFailed})
		return
	}

	c.JSON(http.StatusOK, portfolio)
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, entity.ErrAddressRequired):
		return msgAddressRequired
	case errors.Is(err, entity.ErrUnsupportedChain):
		return msgUnsupported
	case errors.Is(err, entity.ErrInvalidAddress):
		return msgInvalidAddress
	case errors.Is(err, entity.ErrSummaryRequired):
		return msgSummaryRequired
	default:
		return err.Error()
	}
}
