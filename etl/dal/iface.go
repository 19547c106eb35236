package dal

import (
	"context"

	"github.com/brandon841/posthog-etl/etl/domain"
)

// Etl is the warehouse access layer for the pipeline: typed reads of the raw
// sources and staged loads of the aggregated tables.
type Etl interface {
	EnsureDataset(ctx context.Context) error

	GetRawEvents(ctx context.Context, fullLoad bool, limit int) ([]domain.RawEvent, error)
	GetSessionMetadata(ctx context.Context, limit int) ([]domain.SessionMeta, error)
	GetUsers(ctx context.Context, limit int) ([]domain.User, error)
	GetCreatedEvents(ctx context.Context, limit int) ([]domain.CreatedEvent, error)
	GetUserInvites(ctx context.Context, limit int) ([]domain.UserInvite, error)

	LoadSessions(ctx context.Context, rows []domain.SessionRecord) error
	LoadPeople(ctx context.Context, rows []domain.PeopleRecord) error
	LoadDailyActivity(ctx context.Context, rows []domain.DailyActivityRow) error
	LoadChurnState(ctx context.Context, rows []domain.ChurnStateRecord) error
}
