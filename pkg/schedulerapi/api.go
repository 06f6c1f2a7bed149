package schedulerapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Behyna/sms-scheduler/internal/metrics"
	"github.com/Behyna/sms-scheduler/internal/model"
	"github.com/Behyna/sms-scheduler/internal/query"
	"github.com/Behyna/sms-scheduler/internal/stats"
	"github.com/Behyna/sms-scheduler/pkg/httpclient"
	"go.uber.org/zap"
)

const (
	MessagesEndpoint    = "/api/messages/"
	MessageEndpoint     = "/api/messages/%s/"
	CancelEndpoint      = "/api/messages/%s/cancel/"
	StatusStatsEndpoint = "/api/stats/messages-by-status/"
)

type Operation string

const (
	OperationList   Operation = "list"
	OperationGet    Operation = "get"
	OperationCreate Operation = "create"
	OperationCancel Operation = "cancel"
	OperationStats  Operation = "stats"
)

// Client is the scheduler backend contract.
type Client interface {
	List(ctx context.Context, filter query.Filter) ([]model.ScheduledMessage, error)
	Get(ctx context.Context, id string) (model.ScheduledMessage, error)
	// Create returns nil when the backend answers 204 or with an empty body.
	Create(ctx context.Context, request CreateMessageRequest) (*model.ScheduledMessage, error)
	Cancel(ctx context.Context, id string) (model.ScheduledMessage, error)
	StatusStats(ctx context.Context) (stats.Counts, error)
}

type schedulerAPI struct {
	client  httpclient.HTTPClient
	config  Config
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewSchedulerAPI(cfg Config, client httpclient.HTTPClient, metrics *metrics.Metrics, logger *zap.Logger) Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &schedulerAPI{client: client, config: cfg, metrics: metrics, logger: logger}
}

func (s *schedulerAPI) List(ctx context.Context, filter query.Filter) ([]model.ScheduledMessage, error) {
	resp, err := s.send(ctx, OperationList, http.MethodGet, MessagesEndpoint+filter.Encode(), nil)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", OperationList, err)
	}

	envelope, err := query.DecodeList(data)
	if err != nil {
		return nil, fmt.Errorf("decoding error: %w", err)
	}

	msgs := envelope.Messages()
	if envelope.Truncated() {
		fields := []zap.Field{
			zap.Int("received", len(msgs)),
			zap.String("next", *envelope.Next),
		}
		if envelope.Count != nil {
			fields = append(fields, zap.Int("count", *envelope.Count))
		}
		s.logger.Warn("List response is paginated, only the first page is shown", fields...)
	}

	return msgs, nil
}

func (s *schedulerAPI) Get(ctx context.Context, id string) (model.ScheduledMessage, error) {
	resp, err := s.send(ctx, OperationGet, http.MethodGet, messagePath(MessageEndpoint, id), nil)
	if err != nil {
		return model.ScheduledMessage{}, err
	}

	defer resp.Body.Close()

	var msg model.ScheduledMessage
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		return model.ScheduledMessage{}, fmt.Errorf("decoding error: %w", err)
	}

	return msg, nil
}

func (s *schedulerAPI) Create(ctx context.Context, request CreateMessageRequest) (*model.ScheduledMessage, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(request); err != nil {
		return nil, fmt.Errorf("encoding error: %w", err)
	}

	resp, err := s.send(ctx, OperationCreate, http.MethodPost, MessagesEndpoint, &buf)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", OperationCreate, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var msg model.ScheduledMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("decoding error: %w", err)
	}

	return &msg, nil
}

func (s *schedulerAPI) Cancel(ctx context.Context, id string) (model.ScheduledMessage, error) {
	resp, err := s.send(ctx, OperationCancel, http.MethodPost, messagePath(CancelEndpoint, id), nil)
	if err != nil {
		return model.ScheduledMessage{}, err
	}

	defer resp.Body.Close()

	var msg model.ScheduledMessage
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		return model.ScheduledMessage{}, fmt.Errorf("decoding error: %w", err)
	}

	return msg, nil
}

func (s *schedulerAPI) StatusStats(ctx context.Context) (stats.Counts, error) {
	resp, err := s.send(ctx, OperationStats, http.MethodGet, StatusStatsEndpoint, nil)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", OperationStats, err)
	}

	counts, err := stats.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding error: %w", err)
	}

	return counts, nil
}

// send issues one request and turns transport failures and non-2xx
// responses into errors. On success the caller owns resp.Body.
func (s *schedulerAPI) send(ctx context.Context, op Operation, method, path string, body io.Reader) (
	*http.Response, error) {

	headers := map[string]string{
		"Accept": "application/json",
	}

	start := time.Now()

	var resp *http.Response
	var err error
	if method == http.MethodPost {
		headers["Content-Type"] = "application/json"
		resp, err = s.client.Post(ctx, s.config.BaseURL+path, body, headers)
	} else {
		resp, err = s.client.Get(ctx, s.config.BaseURL+path, headers)
	}

	if err != nil {
		s.metrics.RecordAPIRequest(string(op), 0, time.Since(start))
		s.logger.Debug("Scheduler API request failed",
			zap.String("operation", string(op)),
			zap.String("path", path),
			zap.Error(err))

		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return nil, fmt.Errorf("%s: %w", op, ErrTimeout)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.metrics.RecordAPIRequest(string(op), resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()

		apiErr := &APIError{Operation: op, StatusCode: resp.StatusCode, Message: readErrorMessage(resp)}
		s.logger.Debug("Scheduler API returned an error",
			zap.String("operation", string(op)),
			zap.Int("statusCode", resp.StatusCode),
			zap.String("message", apiErr.Message))

		return nil, apiErr
	}

	s.logger.Debug("Scheduler API request completed",
		zap.String("operation", string(op)),
		zap.String("path", path),
		zap.Int("statusCode", resp.StatusCode))

	return resp, nil
}

func messagePath(pattern, id string) string {
	return fmt.Sprintf(pattern, url.PathEscape(id))
}
