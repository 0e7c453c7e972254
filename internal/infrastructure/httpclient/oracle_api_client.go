package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"portfolio_oracle/internal/app/port"
	"portfolio_oracle/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type errorBody struct {
	Error string `json:"error"`
}

// OracleAPIClient implements port.OracleAPI against a running oracle server.
// JSON запросы идут через fasthttp, поток SSE читается через net/http.
type OracleAPIClient struct {
	client       *fasthttp.Client
	streamClient *http.Client
	baseURL      string
	timeout      time.Duration
	logger       *zap.Logger
}

// NewOracleAPIClient creates a client. timeout bounds the portfolio request only;
// the event stream is bounded by the caller's context.
func NewOracleAPIClient(baseURL string, timeout time.Duration, logger *zap.Logger) *OracleAPIClient {
	return &OracleAPIClient{
		client:       &fasthttp.Client{},
		streamClient: &http.Client{},
		baseURL:      strings.TrimRight(baseURL, "/"),
		timeout:      timeout,
		logger:       logger.Named("OracleAPIClient"),
	}
}

// FetchPortfolio calls GET /api/portfolio. A 400 comes back as a ValidationError
// carrying the server's message.
func (c *OracleAPIClient) FetchPortfolio(ctx context.Context, walletAddress string, chainID uint64) (entity.Portfolio, error) {
	query := url.Values{}
	query.Set("address", walletAddress)
	query.Set("chainId", strconv.FormatUint(chainID, 10))
	requestURL := c.baseURL + "/api/portfolio?" + query.Encode()

	c.logger.Debug("Requesting portfolio", zap.String("url", requestURL))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if err := ctx.Err(); err != nil {
		return entity.Portfolio{}, err
	}
	deadline, ok := ctx.Deadline()
	if !ok || time.Until(deadline) > c.timeout {
		deadline = time.Now().Add(c.timeout)
	}
	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		c.logger.Error("Failed to execute portfolio request", zap.String("url", requestURL), zap.Error(err))
		return entity.Portfolio{}, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
	}

	rawBody := resp.Body()
	switch status := resp.StatusCode(); {
	case status == fasthttp.StatusOK:
	case status == fasthttp.StatusBadRequest:
		return entity.Portfolio{}, entity.NewValidationError("request", errors.New(errorMessage(rawBody)))
	default:
		c.logger.Error("Portfolio request failed", zap.Int("statusCode", status), zap.ByteString("responseBody", rawBody))
		return entity.Portfolio{}, fmt.Errorf("portfolio request failed with status %d: %s", status, errorMessage(rawBody))
	}

	var portfolio entity.Portfolio
	if err := json.Unmarshal(rawBody, &portfolio); err != nil {
		return entity.Portfolio{}, fmt.Errorf("failed to unmarshal portfolio response: %w", err)
	}
	c.logger.Debug("Portfolio received",
		zap.Float64("totalValue", portfolio.Summary.TotalValue),
		zap.Int("tokenCount", portfolio.Summary.TokenCount))
	return portfolio, nil
}

// StreamOracle calls POST /api/ai and returns the event stream body.
func (c *OracleAPIClient) StreamOracle(ctx context.Context, oracleReq entity.OracleRequest) (io.ReadCloser, error) {
	payload, err := json.Marshal(oracleReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal oracle request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/ai", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build oracle request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.streamClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrStreamTransport, err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if resp.StatusCode == http.StatusBadRequest {
			return nil, entity.NewValidationError("request", errors.New(errorMessage(body)))
		}
		return nil, fmt.Errorf("oracle request failed with status %d: %s", resp.StatusCode, errorMessage(body))
	}
	c.logger.Debug("Oracle stream opened", zap.Bool("followUp", oracleReq.IsFollowUp))
	return resp.Body, nil
}

// errorMessage достает поле error из тела ответа, иначе возвращает тело как есть.
func errorMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error != "" {
		return eb.Error
	}
	return strings.TrimSpace(string(body))
}

var _ port.OracleAPI = (*OracleAPIClient)(nil)
