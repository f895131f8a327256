package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/tradeboard-backend/internal/identity"
	"github.com/georgemunganga/tradeboard-backend/internal/modules/account"
	"github.com/georgemunganga/tradeboard-backend/internal/modules/user"
	"github.com/georgemunganga/tradeboard-backend/internal/platform/logger"
)

type stubUsers struct{ u *user.User }

func (s stubUsers) CreateUser(context.Context, *user.User) error { return nil }
func (s stubUsers) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	if s.u != nil && s.u.Email == email {
		return s.u, nil
	}
	return nil, user.ErrNotFound
}
func (s stubUsers) GetUserByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	if s.u != nil && s.u.ID == id {
		return s.u, nil
	}
	return nil, user.ErrNotFound
}

type stubAccounts struct{ a *account.Account }

func (s *stubAccounts) GetByUser(_ context.Context, role identity.Role, userID uuid.UUID) (*account.Account, error) {
	if s.a != nil && s.a.Role == role && s.a.UserID == userID {
		return s.a, nil
	}
	return nil, account.ErrNotFound
}

func newTestService(t *testing.T, acct *account.Account) (*service, *user.User) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &user.User{ID: uuid.New(), Email: "ama@example.com", PasswordHash: string(hash), UserType: identity.RoleVendor}
	if acct != nil {
		acct.UserID = u.ID
	}
	svc := NewService(stubUsers{u: u}, &stubAccounts{a: acct}, "test-secret", time.Hour, logger.Nop()).(*service)
	return svc, u
}

func TestLoginIssuesTokenWithOwner(t *testing.T) {
	acct := &account.Account{ID: uuid.New(), Role: identity.RoleVendor}
	svc, u := newTestService(t, acct)

	session, err := svc.Login(context.Background(), " AMA@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)

	id, err := svc.ParseToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id.UserID)
	assert.Equal(t, identity.RoleVendor, id.Role)
	owner, ok := id.Owner()
	require.True(t, ok)
	assert.Equal(t, acct.ID, owner.ID)
}

func TestLoginWithoutAccountHasNoOwner(t *testing.T) {
	svc, _ := newTestService(t, nil)
	session, err := svc.Login(context.Background(), "ama@example.com", "s3cret-pass")
	require.NoError(t, err)

	id, err := svc.ParseToken(session.Token)
	require.NoError(t, err)
	_, ok := id.Owner()
	assert.False(t, ok)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService(t, nil)
	_, err := svc.Login(context.Background(), "ama@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), "nobody@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshPicksUpNewAccount(t *testing.T) {
	svc, u := newTestService(t, nil)
	session, err := svc.Login(context.Background(), "ama@example.com", "s3cret-pass")
	require.NoError(t, err)

	svc.accounts = &stubAccounts{a: &account.Account{ID: uuid.New(), UserID: u.ID, Role: identity.RoleVendor}}
	refreshed, err := svc.Refresh(context.Background(), session.Identity)
	require.NoError(t, err)
	assert.NotNil(t, refreshed.Identity.OwnerID)
}

func TestParseTokenRejectsExpiredAndForeign(t *testing.T) {
	svc, _ := newTestService(t, nil)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	session, err := svc.Login(context.Background(), "ama@example.com", "s3cret-pass")
	require.NoError(t, err)
	_, err = svc.ParseToken(session.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, _ := newTestService(t, nil)
	other.secret = []byte("another-secret")
	foreign, err := other.Login(context.Background(), "ama@example.com", "s3cret-pass")
	require.NoError(t, err)
	_, err = svc.ParseToken(foreign.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMiddleware(t *testing.T) {
	acct := &account.Account{ID: uuid.New(), Role: identity.RoleVendor}
	svc, _ := newTestService(t, acct)
	session, err := svc.Login(context.Background(), "ama@example.com", "s3cret-pass")
	require.NoError(t, err)

	var seen identity.Owner
	h := Middleware(svc)(RequireOwner(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = identity.OwnerFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, acct.ID, seen.ID)
}

func TestRequireOwnerForbidsUnboarded(t *testing.T) {
	svc, _ := newTestService(t, nil)
	session, err := svc.Login(context.Background(), "ama@example.com", "s3cret-pass")
	require.NoError(t, err)

	h := Middleware(svc)(RequireOwner(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}
