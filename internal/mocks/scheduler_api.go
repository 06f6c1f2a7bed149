package mocks

import (
	"context"

	"github.com/Behyna/sms-scheduler/internal/model"
	"github.com/Behyna/sms-scheduler/internal/query"
	"github.com/Behyna/sms-scheduler/internal/stats"
	"github.com/Behyna/sms-scheduler/pkg/schedulerapi"
	"github.com/stretchr/testify/mock"
)

type SchedulerAPI struct {
	mock.Mock
}

func (s *SchedulerAPI) List(ctx context.Context, filter query.Filter) ([]model.ScheduledMessage, error) {
	args := s.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ScheduledMessage), args.Error(1)
}

func (s *SchedulerAPI) Get(ctx context.Context, id string) (model.ScheduledMessage, error) {
	args := s.Called(ctx, id)
	return args.Get(0).(model.ScheduledMessage), args.Error(1)
}

func (s *SchedulerAPI) Create(ctx context.Context, request schedulerapi.CreateMessageRequest) (*model.ScheduledMessage, error) {
	args := s.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ScheduledMessage), args.Error(1)
}

func (s *SchedulerAPI) Cancel(ctx context.Context, id string) (model.ScheduledMessage, error) {
	args := s.Called(ctx, id)
	return args.Get(0).(model.ScheduledMessage), args.Error(1)
}

func (s *SchedulerAPI) StatusStats(ctx context.Context) (stats.Counts, error) {
	args := s.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(stats.Counts), args.Error(1)
}
