package checkout

import (
	"checkout-service/internal/app/contracts"
	"checkout-service/internal/app/models"
	"checkout-service/internal/pkg/constvars"
	"checkout-service/internal/pkg/exceptions"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/tidwall/gjson"
)

var (
	errSessionMissing  = errors.New("checkout session missing")
	errVersionMismatch = errors.New("checkout session version mismatch")
	errSessionExists   = errors.New("checkout session already exists")
)

const openDraftSeparator = "|"

type checkoutSessionRedisRepository struct {
	client    *redis.Client
	RedisRepo contracts.RedisRepository
}

// NewCheckoutSessionRedisRepository stores sessions as JSON under
// checkout:session:{id}. Saves are compare-and-set on the version field.
func NewCheckoutSessionRedisRepository(client *redis.Client, redisRepo contracts.RedisRepository) contracts.CheckoutSessionRepository {
	return &checkoutSessionRedisRepository{
		client:    client,
		RedisRepo: redisRepo,
	}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf(constvars.RedisKeyCheckoutSessionFormat, sessionID)
}

func (r *checkoutSessionRedisRepository) Create(ctx context.Context, session *models.CheckoutSession, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	created, err := r.client.SetNX(ctx, sessionKey(session.ID), data, ttl).Result()
	if err != nil {
		return exceptions.ErrRedisSet(err)
	}
	if !created {
		return exceptions.ErrRedisSet(errSessionExists)
	}
	return nil
}

func (r *checkoutSessionRedisRepository) Get(ctx context.Context, sessionID string) (*models.CheckoutSession, error) {
	data, err := r.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, exceptions.ErrCheckoutSessionNotFound(errSessionMissing, sessionID)
	}
	if err != nil {
		return nil, exceptions.ErrRedisGet(err)
	}

	session := new(models.CheckoutSession)
	err = json.Unmarshal(data, session)
	if err != nil {
		return nil, exceptions.ErrCannotParseJSON(err)
	}
	return session, nil
}

// Save writes session when the stored version is still expectedVersion and
// sets session.Version to expectedVersion+1. The key keeps its TTL.
func (r *checkoutSessionRedisRepository) Save(ctx context.Context, session *models.CheckoutSession, expectedVersion int64) error {
	key := sessionKey(session.ID)

	transaction := func(tx *redis.Tx) error {
		stored, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return errSessionMissing
		}
		if err != nil {
			return err
		}
		if gjson.GetBytes(stored, "version").Int() != expectedVersion {
			return errVersionMismatch
		}

		next := *session
		next.Version = expectedVersion + 1
		data, err := json.Marshal(&next)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SetArgs(ctx, key, data, redis.SetArgs{KeepTTL: true})
			return nil
		})
		return err
	}

	err := r.client.Watch(ctx, transaction, key)
	switch {
	case err == nil:
		session.Version = expectedVersion + 1
		return nil
	case errors.Is(err, errSessionMissing):
		return exceptions.ErrCheckoutSessionNotFound(err, session.ID)
	case errors.Is(err, errVersionMismatch), errors.Is(err, redis.TxFailedErr):
		return exceptions.ErrCheckoutVersionConflict(err, session.ID)
	default:
		return exceptions.ErrRedisSet(err)
	}
}

func (r *checkoutSessionRedisRepository) Delete(ctx context.Context, sessionID string) error {
	return r.RedisRepo.Delete(ctx, sessionKey(sessionID))
}

func (r *checkoutSessionRedisRepository) TrackOpenDraft(ctx context.Context, sessionID, orderID string) error {
	return r.RedisRepo.AddToSet(ctx, constvars.RedisKeyOpenDraftsSet, sessionID+openDraftSeparator+orderID)
}

func (r *checkoutSessionRedisRepository) UntrackOpenDraft(ctx context.Context, sessionID, orderID string) error {
	return r.RedisRepo.RemoveFromSet(ctx, constvars.RedisKeyOpenDraftsSet, sessionID+openDraftSeparator+orderID)
}

func (r *checkoutSessionRedisRepository) ListOpenDrafts(ctx context.Context) ([]models.OpenDraft, error) {
	members, err := r.RedisRepo.GetSetMembers(ctx, constvars.RedisKeyOpenDraftsSet)
	if err != nil {
		return nil, err
	}

	drafts := make([]models.OpenDraft, 0, len(members))
	for _, member := range members {
		sessionID, orderID, found := strings.Cut(member, openDraftSeparator)
		if !found || sessionID == "" || orderID == "" {
			continue
		}
		drafts = append(drafts, models.OpenDraft{SessionID: sessionID, OrderID: orderID})
	}
	return drafts, nil
}
