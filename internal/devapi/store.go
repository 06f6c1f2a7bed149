package devapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Behyna/sms-scheduler/internal/constants"
	"github.com/Behyna/sms-scheduler/internal/metrics"
	"github.com/Behyna/sms-scheduler/internal/model"
	"github.com/Behyna/sms-scheduler/internal/query"
	"github.com/Behyna/sms-scheduler/internal/stats"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultFailureReason = "unknown error"
	createdStatusLabel   = "NONE"
)

var (
	ErrMessageNotFound   = errors.New(constants.ErrCodeMessageNotFound)
	ErrNotCancelable     = errors.New(constants.ErrCodeNotCancelable)
	ErrInvalidTransition = errors.New(constants.ErrCodeInvalidTransition)
	ErrNothingToClaim    = errors.New("NOTHING_TO_CLAIM")
)

// reportable lists the statuses a gateway may report after a claim.
var reportable = map[model.MessageStatus]bool{
	model.MessageStatusSent:      true,
	model.MessageStatusDelivered: true,
	model.MessageStatusReceived:  true,
	model.MessageStatusFailed:    true,
}

// Store is the in-memory message table behind the development API.
type Store interface {
	List(filter query.Filter) []model.ScheduledMessage
	Get(id string) (model.ScheduledMessage, error)
	Create(toHandle, body string, scheduledFor time.Time) model.ScheduledMessage
	Cancel(id string) (model.ScheduledMessage, error)
	Stats() stats.Counts
	Claim(gatewayID string, dueBy time.Time) (model.ScheduledMessage, error)
	Report(id string, status model.MessageStatus, reason string, detail json.RawMessage) (model.ScheduledMessage, error)
}

type StoreOption func(*memoryStore)

// WithClaimInterval makes Claim hand out at most one message per interval,
// whatever is due. Zero disables the gate.
func WithClaimInterval(interval time.Duration) StoreOption {
	return func(s *memoryStore) {
		s.claimInterval = interval
	}
}

type memoryStore struct {
	mu          sync.RWMutex
	messages    map[string]*model.ScheduledMessage
	order       []string
	nextEventID int64
	now         func() time.Time

	claimInterval time.Duration
	nextClaimAt   time.Time

	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewStore(metrics *metrics.Metrics, logger *zap.Logger, opts ...StoreOption) Store {
	s := &memoryStore{
		messages: make(map[string]*model.ScheduledMessage),
		now:      time.Now,
		metrics:  metrics,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns summary records, newest first.
func (s *memoryStore) List(filter query.Filter) []model.ScheduledMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.ScheduledMessage, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		m := s.messages[s.order[i]]
		if !filter.Matches(*m) {
			continue
		}
		summary := m.Clone()
		summary.Events = nil
		out = append(out, summary)
	}
	return out
}

func (s *memoryStore) Get(id string) (model.ScheduledMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.messages[id]
	if !ok {
		return model.ScheduledMessage{}, ErrMessageNotFound
	}
	return m.Clone(), nil
}

func (s *memoryStore) Create(toHandle, body string, scheduledFor time.Time) model.ScheduledMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	m := &model.ScheduledMessage{
		ID:           uuid.NewString(),
		ToHandle:     toHandle,
		Body:         body,
		ScheduledFor: scheduledFor.UTC(),
		Status:       model.MessageStatusQueued,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.appendEvent(m, model.MessageStatusQueued, now, model.NewDetail(map[string]string{"source": "api"}))

	s.messages[m.ID] = m
	s.order = append(s.order, m.ID)

	s.metrics.RecordTransition(createdStatusLabel, string(model.MessageStatusQueued))
	s.logger.Info("Message scheduled",
		zap.String("messageID", m.ID),
		zap.Time("scheduledFor", m.ScheduledFor))

	return m.Clone()
}

func (s *memoryStore) Cancel(id string) (model.ScheduledMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[id]
	if !ok {
		return model.ScheduledMessage{}, ErrMessageNotFound
	}
	if !model.IsCancelable(m.Status) {
		return model.ScheduledMessage{}, fmt.Errorf("%w: message is %s", ErrNotCancelable, m.Status)
	}

	s.transition(m, model.MessageStatusCanceled, model.NewDetail(map[string]string{"source": "api"}))

	return m.Clone(), nil
}

func (s *memoryStore) Stats() stats.Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := stats.New()
	for _, m := range s.messages {
		counts[m.Status]++
	}
	return counts
}

// Claim hands the oldest due QUEUED message, by creation, to the gateway
// and marks it ACCEPTED.
func (s *memoryStore) Claim(gatewayID string, dueBy time.Time) (model.ScheduledMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	if s.claimInterval > 0 && now.Before(s.nextClaimAt) {
		s.logger.Debug("Claim throttled",
			zap.String("gatewayID", gatewayID),
			zap.Time("nextClaimAt", s.nextClaimAt))
		return model.ScheduledMessage{}, ErrNothingToClaim
	}

	var m *model.ScheduledMessage
	for _, id := range s.order {
		candidate := s.messages[id]
		if candidate.Status == model.MessageStatusQueued && !candidate.ScheduledFor.After(dueBy) {
			m = candidate
			break
		}
	}
	if m == nil {
		return model.ScheduledMessage{}, ErrNothingToClaim
	}

	s.transition(m, model.MessageStatusAccepted, model.NewDetail(map[string]string{"gateway_id": gatewayID}))
	claimedAt := m.UpdatedAt
	claimedBy := gatewayID
	m.ClaimedAt = &claimedAt
	m.ClaimedBy = &claimedBy

	if s.claimInterval > 0 {
		s.nextClaimAt = now.Add(s.claimInterval)
	}

	return m.Clone(), nil
}

type reportDetail struct {
	ReportedAt time.Time       `json:"reported_at"`
	Error      *string         `json:"error"`
	Detail     json.RawMessage `json:"detail"`
}

// Report records a gateway outcome. FAILED bumps attempt_count and keeps
// the reason in last_error; any other outcome clears last_error. The
// gateway's own detail payload is kept on the event as given.
func (s *memoryStore) Report(id string, status model.MessageStatus, reason string,
	detail json.RawMessage) (model.ScheduledMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[id]
	if !ok {
		return model.ScheduledMessage{}, ErrMessageNotFound
	}
	if !reportable[status] || !model.CanTransition(m.Status, status) {
		return model.ScheduledMessage{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.Status, status)
	}

	event := reportDetail{ReportedAt: s.now().UTC()}
	if reason = strings.TrimSpace(reason); reason != "" {
		event.Error = &reason
	}
	if len(detail) > 0 && json.Valid(detail) {
		event.Detail = detail
	}

	if status == model.MessageStatusFailed {
		lastError := reason
		if lastError == "" {
			lastError = defaultFailureReason
		}
		m.AttemptCount++
		m.LastError = &lastError
	} else {
		m.LastError = nil
	}
	s.transition(m, status, model.NewDetail(event))

	return m.Clone(), nil
}

func (s *memoryStore) transition(m *model.ScheduledMessage, to model.MessageStatus, detail model.Detail) {
	from := m.Status

	at := s.now().UTC()
	if at.Before(m.UpdatedAt) {
		at = m.UpdatedAt
	}

	m.Status = to
	m.UpdatedAt = at
	s.appendEvent(m, to, at, detail)

	s.metrics.RecordTransition(string(from), string(to))
	s.logger.Info("Message status changed",
		zap.String("messageID", m.ID),
		zap.String("from", string(from)),
		zap.String("to", string(to)))
}

func (s *memoryStore) appendEvent(m *model.ScheduledMessage, status model.MessageStatus, at time.Time,
	detail model.Detail) {
	s.nextEventID++
	m.Events = append(m.Events, model.MessageEvent{
		ID:        s.nextEventID,
		Status:    status,
		Timestamp: at,
		Detail:    detail,
	})
}
