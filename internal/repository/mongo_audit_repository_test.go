package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"crm-commerce/internal/models"
)

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func TestMongoAuditRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("EnsureIndexes", func(mt *mtest.T) {
		repo := NewMongoAuditRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		require.NoError(mt, repo.EnsureIndexes(ctx))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "createIndexes", evt.CommandName)
		indexes, err := evt.Command.Lookup("indexes").Array().Values()
		require.NoError(mt, err)
		assert.Len(mt, indexes, 3)
	})

	mt.Run("Insert fills id and timestamp", func(mt *mtest.T) {
		repo := NewMongoAuditRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		entry := &models.AuditLog{Action: "CANCEL", Entity: "Order", EntityID: "o1", UserID: "c1"}
		require.NoError(mt, repo.Insert(ctx, entry))
		assert.NotEmpty(mt, entry.ID)
		assert.False(mt, entry.CreatedAt.IsZero())
		assert.Equal(mt, time.UTC, entry.CreatedAt.Location())

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "insert", evt.CommandName)
		assert.Equal(mt, mt.Coll.Name(), evt.Command.Lookup("insert").StringValue())
	})

	mt.Run("Insert keeps caller values", func(mt *mtest.T) {
		repo := NewMongoAuditRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		entry := &models.AuditLog{ID: "fixed", Action: "CREATE", Entity: "Tag", CreatedAt: at}
		require.NoError(mt, repo.Insert(ctx, entry))
		assert.Equal(mt, "fixed", entry.ID)
		assert.Equal(mt, at, entry.CreatedAt)
	})

	mt.Run("Insert error is wrapped", func(mt *mtest.T) {
		repo := NewMongoAuditRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 11000, Message: "duplicate key"}))

		err := repo.Insert(ctx, &models.AuditLog{Action: "CREATE", Entity: "Tag"})
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "insert audit log")
	})

	mt.Run("List applies filter, sort and paging", func(mt *mtest.T) {
		repo := NewMongoAuditRepository(mt.Coll)
		newer := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
		older := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, bson.D{{Key: "n", Value: int32(12)}}),
			mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
				bson.D{{Key: "_id", Value: "a2"}, {Key: "action", Value: "CANCEL"}, {Key: "entity", Value: "Order"},
					{Key: "entity_id", Value: "o1"}, {Key: "user_id", Value: "c1"}, {Key: "created_at", Value: newer}},
				bson.D{{Key: "_id", Value: "a1"}, {Key: "action", Value: "PLACE_ORDER"}, {Key: "entity", Value: "Order"},
					{Key: "entity_id", Value: "o1"}, {Key: "user_id", Value: "c1"}, {Key: "created_at", Value: older}},
			),
		)

		from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
		logs, total, err := repo.List(ctx, AuditFilter{
			Page:     Page{Page: 2, Limit: 5},
			Entity:   "Order",
			EntityID: "o1",
			UserID:   "c1",
			From:     from,
			To:       to,
		})
		require.NoError(mt, err)
		assert.Equal(mt, int64(12), total)
		require.Len(mt, logs, 2)
		assert.Equal(mt, "a2", logs[0].ID)
		assert.Equal(mt, "CANCEL", logs[0].Action)
		assert.True(mt, newer.Equal(logs[0].CreatedAt))

		count := mt.GetStartedEvent()
		require.NotNil(mt, count)
		assert.Equal(mt, "aggregate", count.CommandName)

		find := mt.GetStartedEvent()
		require.NotNil(mt, find)
		assert.Equal(mt, "find", find.CommandName)
		filter := find.Command.Lookup("filter").Document()
		assert.Equal(mt, "Order", filter.Lookup("entity").StringValue())
		assert.Equal(mt, "o1", filter.Lookup("entity_id").StringValue())
		assert.Equal(mt, "c1", filter.Lookup("user_id").StringValue())
		assert.True(mt, from.Equal(filter.Lookup("created_at", "$gte").Time()))
		assert.True(mt, to.Equal(filter.Lookup("created_at", "$lt").Time()))
		_, hasAction := filter.Lookup("action").StringValueOK()
		assert.False(mt, hasAction)

		assert.Equal(mt, int64(5), find.Command.Lookup("skip").AsInt64())
		assert.Equal(mt, int64(5), find.Command.Lookup("limit").AsInt64())
		assert.Equal(mt, int64(-1), find.Command.Lookup("sort", "created_at").AsInt64())
	})

	mt.Run("List without filters", func(mt *mtest.T) {
		repo := NewMongoAuditRepository(mt.Coll)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, bson.D{{Key: "n", Value: int32(0)}}),
			mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch),
		)

		logs, total, err := repo.List(ctx, AuditFilter{})
		require.NoError(mt, err)
		assert.Zero(mt, total)
		assert.Empty(mt, logs)

		mt.GetStartedEvent()
		find := mt.GetStartedEvent()
		require.NotNil(mt, find)
		filter := find.Command.Lookup("filter").Document()
		elems, err := filter.Elements()
		require.NoError(mt, err)
		assert.Empty(mt, elems)
		assert.Equal(mt, int64(DefaultLimit), find.Command.Lookup("limit").AsInt64())
	})
}
