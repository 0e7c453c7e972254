package restapi

import (
	"io"
	"net/http"

	"portfolio_oracle/internal/app/port"
	"portfolio_oracle/internal/domain/entity"
	"portfolio_oracle/internal/pkg/metrics"
	"portfolio_oracle/internal/pkg/sse"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	msgSummaryRequired  = "Portfolio summary is required"
	msgGenerationFailed = "Failed to generate response"
)

// OracleHandler streams oracle narratives as server-sent events.
type OracleHandler struct {
	fortunes port.FortuneService
	logger   port.Logger
}

// NewOracleHandler creates a new OracleHandler.
func NewOracleHandler(fortunes port.FortuneService, logger port.Logger) *OracleHandler {
	return &OracleHandler{fortunes: fortunes, logger: logger}
}

// StreamHandler handles POST /api/ai.
// Ошибка до первого фрагмента отдается JSON 500; после начала потока
// соединение просто закрывается без [DONE].
func (h *OracleHandler) StreamHandler(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	var req entity.OracleRequest
	if err == nil {
		err = json.Unmarshal(body, &req)
	}
	kind := "fortune"
	if req.IsFollowUp {
		kind = "follow_up"
	}
	if err != nil {
		h.logger.Warn("Malformed oracle request body", "error", err)
		metrics.OracleStreams.WithLabelValues(kind, "failed").Inc()
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgGenerationFailed})
		return
	}

	stream, err := h.fortunes.Stream(c.Request.Context(), req)
	if err != nil {
		if entity.IsValidation(err) {
			metrics.OracleStreams.WithLabelValues(kind, "rejected").Inc()
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: validationMessage(err)})
			return
		}
		h.logger.Error("Failed to start oracle stream", "kind", kind, "error", err)
		metrics.OracleStreams.WithLabelValues(kind, "failed").Inc()
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgGenerationFailed})
		return
	}
	defer stream.Close()

	// первый фрагмент читаем до записи заголовков
	hasFirst := stream.Next()
	if !hasFirst && stream.Err() != nil {
		h.logger.Error("Oracle stream failed before first fragment", "kind", kind, "error", stream.Err())
		metrics.OracleStreams.WithLabelValues(kind, "failed").Inc()
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgGenerationFailed})
		return
	}

	header := c.Writer.Header()
	header.Set("Content-Type", sse.ContentType)
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	c.Status(http.StatusOK)

	enc := sse.NewEncoder(c.Writer)
	sent := 0
	for more := hasFirst; more; more = stream.Next() {
		if err := enc.WriteFragment(stream.Fragment()); err != nil {
			h.logger.Warn("Client went away mid-stream", "kind", kind, "fragments", sent, "error", err)
			metrics.OracleStreams.WithLabelValues(kind, "aborted").Inc()
			return
		}
		c.Writer.Flush()
		sent++
		metrics.OracleFragments.Inc()
	}

	if err := stream.Err(); err != nil {
		h.logger.Error("Oracle stream failed mid-way", "kind", kind, "fragments", sent, "error", err)
		metrics.OracleStreams.WithLabelValues(kind, "failed").Inc()
		return
	}

	if err := enc.WriteDone(); err != nil {
		metrics.OracleStreams.WithLabelValues(kind, "aborted").Inc()
		return
	}
	c.Writer.Flush()
	metrics.OracleStreams.WithLabelValues(kind, "ok").Inc()
	h.logger.Debug("Oracle stream completed", "kind", kind, "fragments", sent)
}
