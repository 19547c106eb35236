package dal

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/googleapi"

	"github.com/brandon841/posthog-etl/bqutils"
	"github.com/brandon841/posthog-etl/common"
	"github.com/brandon841/posthog-etl/etl/domain"
	"github.com/brandon841/posthog-etl/framework/connection"
)

const (
	eventsTable      = "events"
	sessionsTable    = "sessions"
	usersTable       = "users"
	userInvitesTable = "userinvites"

	datasetLocation = "US"

	// incrementalWatermark bounds the raw event scan on incremental runs.
	incrementalWatermark = "2026-01-01"
)

type BigQuery struct {
	bigqueryFun connection.BigQueryFromContextFun
	storageFun  connection.CloudStorageFromContextFun
}

func NewBigQuery(conn *connection.Connection) *BigQuery {
	return &BigQuery{
		bigqueryFun: conn.Bigquery,
		storageFun:  conn.CloudStorage,
	}
}

// EnsureDataset creates the aggregated dataset when it does not exist yet.
func (d *BigQuery) EnsureDataset(ctx context.Context) error {
	dataset := d.bigqueryFun(ctx).Dataset(common.AggregatedDatasetID)

	_, err := dataset.Metadata(ctx)
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) || apiErr.Code != http.StatusNotFound {
		return err
	}

	err = dataset.Create(ctx, &bigquery.DatasetMetadata{Location: datasetLocation})
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusConflict {
		return nil
	}

	return err
}

func limitClause(limit int) string {
	if limit > 0 {
		return fmt.Sprintf(" LIMIT %d", limit)
	}

	return ""
}

func (d *BigQuery) GetRawEvents(ctx context.Context, fullLoad bool, limit int) ([]domain.RawEvent, error) {
	dateFilter := ""
	if !fullLoad {
		dateFilter = fmt.Sprintf(" WHERE timestamp >= '%s'", incrementalWatermark)
	}

	query := fmt.Sprintf(
		"SELECT distinct_id, event, timestamp, properties FROM `%s.%s.%s`%s%s",
		common.ProjectID, common.PosthogDatasetID, eventsTable, dateFilter, limitClause(limit))

	iter, err := d.bigqueryFun(ctx).Query(query).Read(ctx)
	if err != nil {
		return nil, err
	}

	return bqutils.LoadRows[domain.RawEvent](iter)
}

func (d *BigQuery) GetSessionMetadata(ctx context.Context, limit int) ([]domain.SessionMeta, error) {
	query := fmt.Sprintf(
		"SELECT session_id, distinct_id, start_timestamp, end_timestamp, session_duration, autocapture_count, screen_count FROM `%s.%s.%s`%s",
		common.ProjectID, common.PosthogDatasetID, sessionsTable, limitClause(limit))

	iter, err := d.bigqueryFun(ctx).Query(query).Read(ctx)
	if err != nil {
		return nil, err
	}

	return bqutils.LoadRows[domain.SessionMeta](iter)
}

func (d *BigQuery) GetUsers(ctx context.Context, limit int) ([]domain.User, error) {
	query := fmt.Sprintf(
		"SELECT user_id, phoneNumber, fullName, username, email, createdAt, contactAccessGranted, businessUser, city, country FROM `%s.%s.%s`%s",
		common.ProjectID, common.FirebaseDatasetID, usersTable, limitClause(limit))

	iter, err := d.bigqueryFun(ctx).Query(query).Read(ctx)
	if err != nil {
		return nil, err
	}

	return bqutils.LoadRows[domain.User](iter)
}

func (d *BigQuery) GetCreatedEvents(ctx context.Context, limit int) ([]domain.CreatedEvent, error) {
	query := fmt.Sprintf(
		"SELECT user_id, createdAt FROM `%s.%s.%s`%s",
		common.ProjectID, common.FirebaseDatasetID, eventsTable, limitClause(limit))

	iter, err := d.bigqueryFun(ctx).Query(query).Read(ctx)
	if err != nil {
		return nil, err
	}

	return bqutils.LoadRows[domain.CreatedEvent](iter)
}

func (d *BigQuery) GetUserInvites(ctx context.Context, limit int) ([]domain.UserInvite, error) {
	query := fmt.Sprintf(
		"SELECT user_id, createdAt, status FROM `%s.%s.%s`%s",
		common.ProjectID, common.FirebaseDatasetID, userInvitesTable, limitClause(limit))

	iter, err := d.bigqueryFun(ctx).Query(query).Read(ctx)
	if err != nil {
		return nil, err
	}

	return bqutils.LoadRows[domain.UserInvite](iter)
}

// load replaces the destination table with the given rows. Empty row sets
// leave the existing table untouched.
func (d *BigQuery) load(ctx context.Context, table string, schema bigquery.Schema, rows []interface{}) error {
	if len(rows) == 0 {
		return nil
	}

	return bqutils.BigQueryTableLoader(ctx, bqutils.BigQueryTableLoaderParams{
		Client:  d.bigqueryFun(ctx),
		Storage: d.storageFun(ctx),
		Schema:  &schema,
		Rows:    rows,
		Data: &bqutils.BigQueryTableLoaderRequest{
			DestinationProjectID: common.ProjectID,
			DestinationDatasetID: common.AggregatedDatasetID,
			DestinationTableName: table,
			ObjectDir:            table,
			ConfigJobID:          fmt.Sprintf("posthog_etl_%s", table),
			WriteDisposition:     bigquery.WriteTruncate,
		},
	})
}

func (d *BigQuery) LoadSessions(ctx context.Context, rows []domain.SessionRecord) error {
	loadRows := make([]interface{}, len(rows))
	for i := range rows {
		loadRows[i] = rows[i]
	}

	return d.load(ctx, domain.TableSessionsAggregated, domain.SessionsAggregatedSchema, loadRows)
}

func (d *BigQuery) LoadPeople(ctx context.Context, rows []domain.PeopleRecord) error {
	loadRows := make([]interface{}, len(rows))
	for i := range rows {
		loadRows[i] = rows[i]
	}

	return d.load(ctx, domain.TablePeopleAggregated, domain.PeopleAggregatedSchema, loadRows)
}

func (d *BigQuery) LoadDailyActivity(ctx context.Context, rows []domain.DailyActivityRow) error {
	loadRows := make([]interface{}, len(rows))
	for i := range rows {
		loadRows[i] = rows[i]
	}

	return d.load(ctx, domain.TableUserDailyActivity, domain.UserDailyActivitySchema, loadRows)
}

func (d *BigQuery) LoadChurnState(ctx context.Context, rows []domain.ChurnStateRecord) error {
	loadRows := make([]interface{}, len(rows))
	for i := range rows {
		loadRows[i] = rows[i]
	}

	return d.load(ctx, domain.TableUserChurnState, domain.UserChurnStateSchema, loadRows)
}
