package mongo

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/webscaffold/webapp/internal/core/domain"
	"github.com/webscaffold/webapp/internal/errs"
)

func TestMongoUser_RoundTripThroughBSON(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	in := mongoUser{
		ID:           primitive.NewObjectID(),
		Username:     "alice",
		PasswordHash: "hash",
		Roles:        []string{domain.RoleAdmin},
		CreatedAt:    now.Unix(),
		UpdatedAt:    now.Unix(),
	}

	raw, err := bson.Marshal(in)
	assert.NoError(t, err)

	var out mongoUser
	assert.NoError(t, bson.Unmarshal(raw, &out))

	u := out.toDomain()
	assert.Equal(t, in.ID.Hex(), u.ID)
	assert.Equal(t, []string{domain.RoleAdmin}, u.Roles)
	assert.Equal(t, now, u.CreatedAt)
}

func TestMongoExample_UpdatedAtOmittedUntilSet(t *testing.T) {
	ex := &domain.Example{ID: 7, Title: "t", Owner: "alice", CreatedAt: time.Now().UTC()}

	raw, err := bson.Marshal(toMongoExample(ex))
	assert.NoError(t, err)

	var m bson.M
	assert.NoError(t, bson.Unmarshal(raw, &m))
	_, has := m["updated_at"]
	assert.False(t, has)
	assert.Equal(t, int64(7), m["_id"])
}

func TestUnixToTime(t *testing.T) {
	assert.True(t, unixToTime(0).IsZero())
	assert.Equal(t, time.UTC, unixToTime(1700000000).Location())
}

func TestRepositories_DriverFailuresAreDatabaseErrors(t *testing.T) {
	ctx := context.Background()
	// Nothing listens on port 1, so every operation fails server selection.
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI("mongodb://127.0.0.1:1").
		SetServerSelectionTimeout(200*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(ctx) })
	db := client.Database("webapp_test")

	_, err = NewUserRepository(db).FindByUsername(ctx, "alice")
	assertDatabaseError(t, err)
	assert.NotErrorIs(t, err, domain.ErrUserNotFound)

	_, _, err = NewExampleRepository(db).List(ctx, 10, 0)
	assertDatabaseError(t, err)

	err = NewExampleRepository(db).Delete(ctx, 1)
	assertDatabaseError(t, err)
	assert.NotErrorIs(t, err, domain.ErrExampleNotFound)
}

func assertDatabaseError(t *testing.T, err error) {
	t.Helper()
	var appErr *errs.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Equal(t, "Database operation failed", appErr.Detail)
	assert.NotNil(t, appErr.Unwrap(), "driver cause must be kept for logs")
}
