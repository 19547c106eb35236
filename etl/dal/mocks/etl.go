package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/brandon841/posthog-etl/etl/domain"
)

type Etl struct {
	mock.Mock
}

func (m *Etl) EnsureDataset(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *Etl) GetRawEvents(ctx context.Context, fullLoad bool, limit int) ([]domain.RawEvent, error) {
	args := m.Called(ctx, fullLoad, limit)

	var rows []domain.RawEvent
	if args.Get(0) != nil {
		rows = args.Get(0).([]domain.RawEvent)
	}

	return rows, args.Error(1)
}

func (m *Etl) GetSessionMetadata(ctx context.Context, limit int) ([]domain.SessionMeta, error) {
	args := m.Called(ctx, limit)

	var rows []domain.SessionMeta
	if args.Get(0) != nil {
		rows = args.Get(0).([]domain.SessionMeta)
	}

	return rows, args.Error(1)
}

func (m *Etl) GetUsers(ctx context.Context, limit int) ([]domain.User, error) {
	args := m.Called(ctx, limit)

	var rows []domain.User
	if args.Get(0) != nil {
		rows = args.Get(0).([]domain.User)
	}

	return rows, args.Error(1)
}

func (m *Etl) GetCreatedEvents(ctx context.Context, limit int) ([]domain.CreatedEvent, error) {
	args := m.Called(ctx, limit)

	var rows []domain.CreatedEvent
	if args.Get(0) != nil {
		rows = args.Get(0).([]domain.CreatedEvent)
	}

	return rows, args.Error(1)
}

func (m *Etl) GetUserInvites(ctx context.Context, limit int) ([]domain.UserInvite, error) {
	args := m.Called(ctx, limit)

	var rows []domain.UserInvite
	if args.Get(0) != nil {
		rows = args.Get(0).([]domain.UserInvite)
	}

	return rows, args.Error(1)
}

func (m *Etl) LoadSessions(ctx context.Context, rows []domain.SessionRecord) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *Etl) LoadPeople(ctx context.Context, rows []domain.PeopleRecord) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *Etl) LoadDailyActivity(ctx context.Context, rows []domain.DailyActivityRow) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *Etl) LoadChurnState(ctx context.Context, rows []domain.ChurnStateRecord) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}
