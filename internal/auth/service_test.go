package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/noorweb/noorweb/internal/config"
	"github.com/noorweb/noorweb/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestService() *Service {
	s := store.New(store.NewMemoryBackend(), config.StoreDriverMemory)
	return NewService(s, testSecret)
}

func TestService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	u, err := svc.Register(ctx, "Ali Raza", " Ali@Example.com ", "Passw0rd!")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "ali@example.com", u.Email)
	assert.False(t, u.IsGuest)

	cur, ok := svc.Current(ctx)
	require.True(t, ok, "registering opens a session")
	assert.Equal(t, u, cur)

	require.NoError(t, svc.Logout(ctx))
	_, ok = svc.Current(ctx)
	assert.False(t, ok)

	got, err := svc.Login(ctx, "ALI@example.com", "Passw0rd!")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestService_PasswordIsNotStoredInClear(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	_, err := svc.Register(ctx, "Ali", "ali@example.com", "Passw0rd!")
	require.NoError(t, err)

	accounts := store.Get(ctx, svc.store, config.KeyUsers, []account{})
	require.Len(t, accounts, 1)
	assert.NotEqual(t, "Passw0rd!", accounts[0].PasswordHash)
	assert.NotEmpty(t, accounts[0].PasswordHash)
}

func TestService_RegisterRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	_, err := svc.Register(ctx, "Ali", "ali@example.com", "Passw0rd!")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Other", "ALI@example.com", "Passw0rd!")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestService_RegisterValidates(t *testing.T) {
	svc := newTestService()
	_, err := svc.Register(context.Background(), "A", "ali@example.com", "weak")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_LoginFailures(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	_, err := svc.Register(ctx, "Ali", "ali@example.com", "Passw0rd!")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx))

	_, err = svc.Login(ctx, "ali@example.com", "Wrong0rd!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "Passw0rd!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "ali@example.com", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, ok := svc.Current(ctx)
	assert.False(t, ok, "failed logins leave no session")
}

func TestService_Guest(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	u, err := svc.LoginAsGuest(ctx)
	require.NoError(t, err)
	assert.True(t, u.IsGuest)
	assert.Equal(t, config.GuestName, u.Name)

	cur, ok := svc.Current(ctx)
	require.True(t, ok)
	assert.True(t, cur.IsGuest)
}

func TestService_TokenRoundTrip(t *testing.T) {
	svc := newTestService()
	fixed := time.Now().Truncate(time.Second)
	svc.now = func() time.Time { return fixed }

	u := User{ID: "u-1", Name: "Ali", Email: "ali@example.com"}
	raw, err := svc.IssueToken(u)
	require.NoError(t, err)

	claims, err := svc.ParseToken(raw)
	require.NoError(t, err)
	assert.Equal(t, u, claims.User)
	assert.Equal(t, fixed.Add(config.TokenTTL).UTC(), claims.ExpiresAt)
}

func TestService_ParseTokenRejects(t *testing.T) {
	svc := newTestService()
	u := User{ID: "u-1", Name: "Ali"}

	t.Run("Expired", func(t *testing.T) {
		old := newTestService()
		old.now = func() time.Time { return time.Now().Add(-2 * config.TokenTTL) }
		raw, err := old.IssueToken(u)
		require.NoError(t, err)

		_, err = svc.ParseToken(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Other secret", func(t *testing.T) {
		other := NewService(svc.store, []byte("another-secret"))
		raw, err := other.IssueToken(u)
		require.NoError(t, err)

		_, err = svc.ParseToken(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Unsigned", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "u-1"})
		raw, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.ParseToken(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Missing subject", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		raw, err := tok.SignedString(testSecret)
		require.NoError(t, err)

		_, err = svc.ParseToken(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := svc.ParseToken("not.a.token")
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})
}

// unreadableBackend fails every read once armed.
type unreadableBackend struct {
	*store.MemoryBackend
	down bool
}

func (u *unreadableBackend) Load(ctx context.Context, key string) ([]byte, bool, error) {
	if u.down {
		return nil, false, errors.New("i/o timeout")
	}
	return u.MemoryBackend.Load(ctx, key)
}

func TestService_RegisterAbortsOnReadFailure(t *testing.T) {
	ctx := context.Background()
	backend := &unreadableBackend{MemoryBackend: store.NewMemoryBackend()}
	svc := NewService(store.New(backend, config.StoreDriverMemory), testSecret)

	_, err := svc.Register(ctx, "Ali", "ali@example.com", "Passw0rd!")
	require.NoError(t, err)

	backend.down = true
	_, err = svc.Register(ctx, "Sara", "sara@example.com", "Passw0rd!")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrStoreRead)

	backend.down = false
	accounts := store.Get(ctx, svc.store, config.KeyUsers, []account{})
	require.Len(t, accounts, 1, "existing accounts survive a failed read")
	assert.Equal(t, "ali@example.com", accounts[0].Email)

	_, err = svc.Login(ctx, "ali@example.com", "Passw0rd!")
	assert.NoError(t, err)
}
