package session

import (
	"checkout-service/internal/app/models"
	"checkout-service/internal/pkg/constvars"
	"checkout-service/internal/pkg/exceptions"
	"checkout-service/internal/pkg/utils"
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func signAccessToken(userID, email, name, secret string, ttl time.Duration) (string, error) {
	claims := utils.AccessTokenClaims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

type fakeIdentityAPI struct {
	calls   int32
	delay   time.Duration
	user    *models.User
	err     error
	release chan struct{}
}

func (f *fakeIdentityAPI) GetProfile(ctx context.Context, token string) (*models.User, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.release != nil {
		<-f.release
	}
	time.Sleep(f.delay)
	return f.user, f.err
}

func (f *fakeIdentityAPI) ListAddresses(ctx context.Context, token string) ([]models.DeliveryAddress, error) {
	return nil, nil
}

func newToken(t *testing.T, secret string) string {
	token, err := signAccessToken("u-1", "ana@example.com", "Ana", secret, time.Hour)
	require.NoError(t, err)
	return token
}

func TestSessionContextFactory_FromBearerToken(t *testing.T) {
	factory := NewSessionContextFactory(&fakeIdentityAPI{}, testSecret, zap.NewNop())

	t.Run("Valid Token", func(t *testing.T) {
		sc, err := factory.FromBearerToken(context.Background(), newToken(t, testSecret))
		require.NoError(t, err)
		user, ok := sc.CurrentUser()
		require.True(t, ok)
		assert.Equal(t, "u-1", user.ID)
		assert.Equal(t, "Ana", user.Name)
		assert.True(t, sc.IsAuthenticated())
	})

	t.Run("Missing Token", func(t *testing.T) {
		_, err := factory.FromBearerToken(context.Background(), " ")
		assert.Equal(t, http.StatusUnauthorized, exceptions.StatusCodeOf(err))
	})

	t.Run("Wrong Secret", func(t *testing.T) {
		_, err := factory.FromBearerToken(context.Background(), newToken(t, "other"))
		assert.Equal(t, http.StatusUnauthorized, exceptions.StatusCodeOf(err))
	})

	t.Run("Expired Token", func(t *testing.T) {
		token, err := signAccessToken("u-1", "", "", testSecret, -time.Minute)
		require.NoError(t, err)
		_, err = factory.FromBearerToken(context.Background(), token)
		assert.Equal(t, http.StatusUnauthorized, exceptions.StatusCodeOf(err))
	})
}

func TestSessionContext_Refresh(t *testing.T) {
	t.Run("Updates User", func(t *testing.T) {
		identity := &fakeIdentityAPI{user: &models.User{ID: "u-1", Name: "Ana María"}}
		factory := NewSessionContextFactory(identity, testSecret, zap.NewNop())
		sc, err := factory.FromBearerToken(context.Background(), newToken(t, testSecret))
		require.NoError(t, err)

		require.NoError(t, sc.Refresh(context.Background()))
		user, _ := sc.CurrentUser()
		assert.Equal(t, "Ana María", user.Name)
	})

	t.Run("Concurrent Refreshes Share One Call", func(t *testing.T) {
		identity := &fakeIdentityAPI{user: &models.User{ID: "u-1"}, release: make(chan struct{})}
		factory := NewSessionContextFactory(identity, testSecret, zap.NewNop())
		token := newToken(t, testSecret)

		var wg sync.WaitGroup
		for i := 0; i < 5; i++ {
			sc, err := factory.FromBearerToken(context.Background(), token)
			require.NoError(t, err)
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, sc.Refresh(context.Background()))
			}()
		}

		time.Sleep(50 * time.Millisecond)
		close(identity.release)
		wg.Wait()
		assert.Equal(t, int32(1), atomic.LoadInt32(&identity.calls))
	})

	t.Run("Unauthorized Invalidates", func(t *testing.T) {
		upstreamErr := exceptions.ErrUpstreamStatus(errors.New("401"), constvars.UpstreamIdentityAPI, http.StatusUnauthorized, "")
		factory := NewSessionContextFactory(&fakeIdentityAPI{err: upstreamErr}, testSecret, zap.NewNop())
		sc, err := factory.FromBearerToken(context.Background(), newToken(t, testSecret))
		require.NoError(t, err)

		err = sc.Refresh(context.Background())
		assert.Equal(t, http.StatusUnauthorized, exceptions.StatusCodeOf(err))
		assert.False(t, sc.IsAuthenticated())
		assert.Empty(t, sc.Token())

		err = sc.Refresh(context.Background())
		assert.Equal(t, http.StatusUnauthorized, exceptions.StatusCodeOf(err))
	})

	t.Run("Upstream Outage Keeps Session", func(t *testing.T) {
		upstreamErr := exceptions.ErrUpstreamStatus(errors.New("500"), constvars.UpstreamIdentityAPI, http.StatusInternalServerError, "")
		factory := NewSessionContextFactory(&fakeIdentityAPI{err: upstreamErr}, testSecret, zap.NewNop())
		sc, err := factory.FromBearerToken(context.Background(), newToken(t, testSecret))
		require.NoError(t, err)

		err = sc.Refresh(context.Background())
		assert.Equal(t, http.StatusBadGateway, exceptions.StatusCodeOf(err))
		assert.True(t, sc.IsAuthenticated())
	})
}
