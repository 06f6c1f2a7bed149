package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Behyna/sms-scheduler/internal/metrics"
	"github.com/Behyna/sms-scheduler/internal/model"
	"github.com/Behyna/sms-scheduler/internal/query"
	"github.com/Behyna/sms-scheduler/internal/stats"
	"github.com/Behyna/sms-scheduler/pkg/schedulerapi"
	"go.uber.org/zap"
)

const (
	OpRefresh = "refresh"
	OpSelect  = "select"
	OpCreate  = "create"
	OpCancel  = "cancel"
	OpStats   = "stats"
)

const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeRejected = "rejected"
	OutcomeStale    = "stale"
)

// Controller owns the list snapshot and the selected message. It is the
// only writer of either; readers get copies.
type Controller interface {
	Filter() query.Filter
	SetFilter(filter query.Filter) error

	Refresh(ctx context.Context) ([]model.ScheduledMessage, error)
	Select(ctx context.Context, id string) (model.ScheduledMessage, error)
	ClearSelection()
	Create(ctx context.Context, cmd CreateMessageCommand) (*model.ScheduledMessage, error)
	Cancel(ctx context.Context, id string) (model.ScheduledMessage, error)

	// Stats asks the backend for the per-status summary and falls back to
	// SnapshotStats when the backend has no summary endpoint.
	Stats(ctx context.Context) (stats.Counts, error)
	SnapshotStats() stats.Counts

	Snapshot() []model.ScheduledMessage
	Selected() (model.ScheduledMessage, bool)
	Busy() bool
	Close() error
}

type controller struct {
	api       schedulerapi.Client
	validator CommandValidator
	metrics   *metrics.Metrics
	logger    *zap.Logger

	busy   atomic.Bool
	closed atomic.Bool

	listSeq   atomic.Uint64
	selectSeq atomic.Uint64

	mu            sync.RWMutex
	filter        query.Filter
	snapshot      []model.ScheduledMessage
	selected      *model.ScheduledMessage
	listApplied   uint64
	selectApplied uint64
}

func NewController(api schedulerapi.Client, validator CommandValidator, metrics *metrics.Metrics,
	logger *zap.Logger) Controller {
	return &controller{
		api:       api,
		validator: validator,
		metrics:   metrics,
		logger:    logger,
		snapshot:  []model.ScheduledMessage{},
	}
}

func (c *controller) Filter() query.Filter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filter
}

// SetFilter replaces the active predicate set. It takes effect on the next
// refresh.
func (c *controller) SetFilter(filter query.Filter) error {
	if c.closed.Load() {
		return NewServiceError(ErrCodeClosed, ErrClosed)
	}
	if err := filter.Validate(); err != nil {
		return NewServiceError(ErrCodeValidationFailed, err)
	}

	c.mu.Lock()
	c.filter = filter
	c.mu.Unlock()

	return nil
}

func (c *controller) Refresh(ctx context.Context) ([]model.ScheduledMessage, error) {
	if c.closed.Load() {
		return nil, NewServiceError(ErrCodeClosed, ErrClosed)
	}
	return c.refresh(ctx)
}

func (c *controller) refresh(ctx context.Context) ([]model.ScheduledMessage, error) {
	filter := c.Filter()
	seq := c.listSeq.Add(1)

	msgs, err := c.api.List(ctx, filter)
	if err != nil {
		c.metrics.RecordControllerOp(OpRefresh, OutcomeError)
		c.logger.Error("Failed to refresh message list", zap.Error(err))
		return nil, err
	}

	for _, m := range msgs {
		c.checkInvariants(m)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq < c.listApplied {
		c.metrics.RecordStaleResponse(OpRefresh)
		c.metrics.RecordControllerOp(OpRefresh, OutcomeStale)
		c.logger.Warn("Discarding stale list response",
			zap.Uint64("sequence", seq),
			zap.Uint64("appliedSequence", c.listApplied))
		return cloneAll(c.snapshot), nil
	}

	c.listApplied = seq
	c.snapshot = cloneAll(msgs)
	c.metrics.SetSnapshotSize(len(c.snapshot))

	if c.selected != nil && !containsID(c.snapshot, c.selected.ID) {
		c.logger.Info("Clearing selection outside the current list",
			zap.String("messageID", c.selected.ID))
		c.selected = nil
		c.metrics.RecordSelectionCleared()
	}

	c.metrics.RecordControllerOp(OpRefresh, OutcomeSuccess)
	c.logger.Debug("Message list refreshed", zap.Int("count", len(c.snapshot)))

	return cloneAll(c.snapshot), nil
}

func (c *controller) Select(ctx context.Context, id string) (model.ScheduledMessage, error) {
	if c.closed.Load() {
		return model.ScheduledMessage{}, NewServiceError(ErrCodeClosed, ErrClosed)
	}
	if strings.TrimSpace(id) == "" {
		return model.ScheduledMessage{}, NewServiceError(ErrCodeValidationFailed, ErrEmptyMessageID)
	}
	return c.selectMessage(ctx, id)
}

func (c *controller) selectMessage(ctx context.Context, id string) (model.ScheduledMessage, error) {
	seq := c.selectSeq.Add(1)

	msg, err := c.api.Get(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq < c.selectApplied {
		c.metrics.RecordStaleResponse(OpSelect)
		c.metrics.RecordControllerOp(OpSelect, OutcomeStale)
		c.logger.Warn("Discarding stale detail response",
			zap.String("messageID", id),
			zap.Uint64("sequence", seq),
			zap.Uint64("appliedSequence", c.selectApplied))
		if err != nil {
			return model.ScheduledMessage{}, err
		}
		return msg, nil
	}

	c.selectApplied = seq

	if err != nil {
		// The previous selection may no longer be accurate.
		c.selected = nil
		c.metrics.RecordControllerOp(OpSelect, OutcomeError)
		c.logger.Error("Failed to fetch message detail",
			zap.String("messageID", id),
			zap.Error(err))
		return model.ScheduledMessage{}, err
	}

	c.checkInvariants(msg)

	selected := msg.Clone()
	c.selected = &selected

	c.metrics.RecordControllerOp(OpSelect, OutcomeSuccess)
	c.logger.Debug("Message selected",
		zap.String("messageID", msg.ID),
		zap.String("status", msg.Status.String()))

	return msg, nil
}

func (c *controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Detail requests already in flight must not resurrect the selection.
	c.selectApplied = c.selectSeq.Load() + 1
	c.selected = nil
}

// Create validates cmd locally, issues the create command and re-reads the
// list. The returned record is nil when the backend sends no body.
func (c *controller) Create(ctx context.Context, cmd CreateMessageCommand) (*model.ScheduledMessage, error) {
	if c.closed.Load() {
		return nil, NewServiceError(ErrCodeClosed, ErrClosed)
	}

	request, err := c.validator.ValidateCreate(cmd)
	if err != nil {
		c.metrics.RecordControllerOp(OpCreate, OutcomeRejected)
		c.logger.Warn("Create command rejected", zap.Error(err))
		return nil, err
	}

	if !c.busy.CompareAndSwap(false, true) {
		c.metrics.RecordControllerOp(OpCreate, OutcomeRejected)
		return nil, NewServiceError(ErrCodeBusy, ErrBusy)
	}
	defer c.busy.Store(false)

	created, err := c.api.Create(ctx, request)
	if err != nil {
		c.metrics.RecordControllerOp(OpCreate, OutcomeError)
		c.logger.Error("Failed to create message",
			zap.String("toHandle", request.ToHandle),
			zap.Error(err))
		return nil, err
	}

	c.metrics.RecordControllerOp(OpCreate, OutcomeSuccess)
	if created != nil {
		c.logger.Info("Message created",
			zap.String("messageID", created.ID),
			zap.String("scheduledFor", request.ScheduledFor))
	} else {
		c.logger.Info("Message created without a response body",
			zap.String("scheduledFor", request.ScheduledFor))
	}

	if _, err := c.refresh(ctx); err != nil {
		return created, NewServiceError(ErrCodeSnapshotStale, fmt.Errorf("%w: %w", ErrSnapshotStale, err))
	}

	return created, nil
}

// Cancel issues the cancel command and reports the status the backend
// actually holds afterwards. A response that is not CANCELED yields
// ErrCancelNotApplied together with the authoritative record, and so does
// a message that was already past cancelable and came back unchanged.
func (c *controller) Cancel(ctx context.Context, id string) (model.ScheduledMessage, error) {
	if c.closed.Load() {
		return model.ScheduledMessage{}, NewServiceError(ErrCodeClosed, ErrClosed)
	}
	if strings.TrimSpace(id) == "" {
		c.metrics.RecordControllerOp(OpCancel, OutcomeRejected)
		return model.ScheduledMessage{}, NewServiceError(ErrCodeValidationFailed, ErrEmptyMessageID)
	}

	if !c.busy.CompareAndSwap(false, true) {
		c.metrics.RecordControllerOp(OpCancel, OutcomeRejected)
		return model.ScheduledMessage{}, NewServiceError(ErrCodeBusy, ErrBusy)
	}
	defer c.busy.Store(false)

	prior, known := c.lastKnownStatus(id)

	result, err := c.api.Cancel(ctx, id)
	if err != nil {
		c.metrics.RecordControllerOp(OpCancel, OutcomeError)
		c.logger.Error("Failed to cancel message",
			zap.String("messageID", id),
			zap.Error(err))
		return model.ScheduledMessage{}, err
	}
	if result.ID == "" {
		result.ID = id
	}

	var staleErr error
	if snapshot, err := c.refresh(ctx); err != nil {
		staleErr = err
	} else if entry, ok := findByID(snapshot, id); ok {
		result = entry
	}

	if selected, ok := c.Selected(); ok && selected.ID == id {
		detail, err := c.selectMessage(ctx, id)
		if err != nil {
			staleErr = errors.Join(staleErr, err)
		} else {
			result = detail
		}
	}

	unchanged := known && !model.IsCancelable(prior) && result.Status == prior
	if result.Status != model.MessageStatusCanceled || unchanged {
		c.metrics.RecordControllerOp(OpCancel, OutcomeRejected)
		c.logger.Warn("Cancel did not reach CANCELED",
			zap.String("messageID", id),
			zap.String("status", result.Status.String()),
			zap.Bool("unchanged", unchanged))
		return result, NewServiceError(ErrCodeCancelNotApplied,
			fmt.Errorf("%w: message %s is %s", ErrCancelNotApplied, id, result.Status))
	}

	c.metrics.RecordControllerOp(OpCancel, OutcomeSuccess)
	c.logger.Info("Message canceled", zap.String("messageID", id))

	if staleErr != nil {
		return result, NewServiceError(ErrCodeSnapshotStale, fmt.Errorf("%w: %w", ErrSnapshotStale, staleErr))
	}

	return result, nil
}

func (c *controller) Stats(ctx context.Context) (stats.Counts, error) {
	if c.closed.Load() {
		return nil, NewServiceError(ErrCodeClosed, ErrClosed)
	}

	counts, err := c.api.StatusStats(ctx)
	if errors.Is(err, schedulerapi.ErrNotFound) {
		c.logger.Info("Summary endpoint unavailable, reducing the list snapshot")
		c.metrics.RecordControllerOp(OpStats, OutcomeSuccess)
		return c.SnapshotStats(), nil
	}
	if err != nil {
		c.metrics.RecordControllerOp(OpStats, OutcomeError)
		c.logger.Error("Failed to fetch status summary", zap.Error(err))
		return nil, err
	}

	c.metrics.RecordControllerOp(OpStats, OutcomeSuccess)
	return counts, nil
}

func (c *controller) SnapshotStats() stats.Counts {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return stats.FromMessages(c.snapshot)
}

func (c *controller) Snapshot() []model.ScheduledMessage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneAll(c.snapshot)
}

func (c *controller) Selected() (model.ScheduledMessage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.selected == nil {
		return model.ScheduledMessage{}, false
	}
	return c.selected.Clone(), true
}

func (c *controller) Busy() bool {
	return c.busy.Load()
}

// Close drops all client state. Later calls fail with ErrClosed.
func (c *controller) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	c.mu.Lock()
	c.snapshot = []model.ScheduledMessage{}
	c.selected = nil
	c.mu.Unlock()

	c.metrics.SetSnapshotSize(0)
	c.logger.Debug("Controller closed")

	return nil
}

func (c *controller) checkInvariants(m model.ScheduledMessage) {
	if err := model.CheckInvariants(m); err != nil {
		c.metrics.RecordInvariantViolation()
		c.logger.Warn("Backend record violates message invariants",
			zap.String("messageID", m.ID),
			zap.Error(err))
	}
}

// lastKnownStatus prefers the selected detail over the list snapshot.
func (c *controller) lastKnownStatus(id string) (model.MessageStatus, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.selected != nil && c.selected.ID == id {
		return c.selected.Status, true
	}
	if m, ok := findByID(c.snapshot, id); ok {
		return m.Status, true
	}
	return "", false
}

func cloneAll(msgs []model.ScheduledMessage) []model.ScheduledMessage {
	out := make([]model.ScheduledMessage, len(msgs))
	for i, m := range msgs {
		out[i] = m.Clone()
	}
	return out
}

func containsID(msgs []model.ScheduledMessage, id string) bool {
	_, ok := findByID(msgs, id)
	return ok
}

func findByID(msgs []model.ScheduledMessage, id string) (model.ScheduledMessage, bool) {
	for _, m := range msgs {
		if m.ID == id {
			return m, true
		}
	}
	return model.ScheduledMessage{}, false
}
