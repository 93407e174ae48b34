package checkout

import (
	"checkout-service/internal/app/models"
	redisRepository "checkout-service/internal/app/services/shared/redis"
	"checkout-service/internal/pkg/exceptions"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessionRepository(t *testing.T) (*checkoutSessionRedisRepository, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo := NewCheckoutSessionRedisRepository(client, redisRepository.NewRedisRepository(client))
	return repo.(*checkoutSessionRedisRepository), mr
}

func TestCheckoutSessionRedisRepository_CreateGet(t *testing.T) {
	repo, mr := newTestSessionRepository(t)
	ctx := context.Background()

	session := &models.CheckoutSession{
		ID:     "s-1",
		UserID: "u-1",
		Kind:   models.KindPurchase,
		Step:   models.StepCart,
		Lines:  []models.CartLine{{ProductID: "P1", UnitPrice: 15000, Quantity: 2}},
	}
	require.NoError(t, repo.Create(ctx, session, time.Hour))
	assert.Equal(t, time.Hour, mr.TTL(sessionKey("s-1")))

	stored, err := repo.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, session.Lines, stored.Lines)
	assert.Equal(t, models.StepCart, stored.Step)

	assert.Error(t, repo.Create(ctx, session, time.Hour), "ids are never reused")

	_, err = repo.Get(ctx, "missing")
	assert.Equal(t, http.StatusNotFound, exceptions.StatusCodeOf(err))

	mr.FastForward(2 * time.Hour)
	_, err = repo.Get(ctx, "s-1")
	assert.Equal(t, http.StatusNotFound, exceptions.StatusCodeOf(err))
}

func TestCheckoutSessionRedisRepository_Save(t *testing.T) {
	repo, mr := newTestSessionRepository(t)
	ctx := context.Background()

	session := &models.CheckoutSession{ID: "s-1", UserID: "u-1", Step: models.StepCart}
	require.NoError(t, repo.Create(ctx, session, time.Hour))

	t.Run("Bumps Version And Keeps TTL", func(t *testing.T) {
		mr.FastForward(10 * time.Minute)
		session.Step = models.StepAddress
		require.NoError(t, repo.Save(ctx, session, 0))
		assert.Equal(t, int64(1), session.Version)
		assert.Equal(t, 50*time.Minute, mr.TTL(sessionKey("s-1")))

		stored, err := repo.Get(ctx, "s-1")
		require.NoError(t, err)
		assert.Equal(t, models.StepAddress, stored.Step)
		assert.Equal(t, int64(1), stored.Version)
	})

	t.Run("Stale Write Is Refused", func(t *testing.T) {
		stale := *session
		stale.Step = models.StepCart
		err := repo.Save(ctx, &stale, 0)
		assert.Equal(t, http.StatusConflict, exceptions.StatusCodeOf(err))

		stored, err := repo.Get(ctx, "s-1")
		require.NoError(t, err)
		assert.Equal(t, models.StepAddress, stored.Step)
		assert.Equal(t, int64(0), stale.Version, "failed save leaves the version untouched")
	})

	t.Run("Missing Session", func(t *testing.T) {
		err := repo.Save(ctx, &models.CheckoutSession{ID: "gone"}, 0)
		assert.Equal(t, http.StatusNotFound, exceptions.StatusCodeOf(err))
	})
}

func TestCheckoutSessionRedisRepository_OpenDrafts(t *testing.T) {
	repo, _ := newTestSessionRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.TrackOpenDraft(ctx, "s-1", "c-1"))
	require.NoError(t, repo.TrackOpenDraft(ctx, "s-2", "c-2"))
	require.NoError(t, repo.TrackOpenDraft(ctx, "s-1", "c-1"))

	drafts, err := repo.ListOpenDrafts(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []models.OpenDraft{{SessionID: "s-1", OrderID: "c-1"}, {SessionID: "s-2", OrderID: "c-2"}}, drafts)

	require.NoError(t, repo.UntrackOpenDraft(ctx, "s-1", "c-1"))
	drafts, err = repo.ListOpenDrafts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.OpenDraft{{SessionID: "s-2", OrderID: "c-2"}}, drafts)

	require.NoError(t, repo.Delete(ctx, "s-2"))
}
