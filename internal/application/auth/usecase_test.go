package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/invoice-studio-api/internal/application/auth"
	"github.com/jhoicas/invoice-studio-api/internal/application/dto"
	"github.com/jhoicas/invoice-studio-api/internal/domain"
	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
	"github.com/jhoicas/invoice-studio-api/pkg/jwt"
)

type memUsers struct{ byID map[string]*entity.User }

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.byID[u.ID] = u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	return m.byID[id], nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

const secret = "test-secret"

func newAuth() (*auth.AuthUseCase, *memUsers) {
	repo := &memUsers{byID: map[string]*entity.User{}}
	uc := auth.NewAuthUseCase(repo, auth.JWTConfig{Secret: secret, ExpMinutes: 5, Issuer: "invoice-studio"}).
		WithBcryptCost(bcrypt.MinCost)
	return uc, repo
}

func TestRegisterYLogin(t *testing.T) {
	uc, _ := newAuth()
	ctx := context.Background()

	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "Owner@Studio.dev", Password: "s3cretpass"})
	require.NoError(t, err)
	assert.Equal(t, "owner@studio.dev", u.Email)
	assert.Equal(t, "owner@studio.dev", u.Name)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "owner@studio.dev", Password: "otherpass"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	res, err := uc.Login(ctx, dto.LoginRequest{Email: "owner@studio.dev", Password: "s3cretpass"})
	require.NoError(t, err)
	userID, email, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
	assert.Equal(t, "owner@studio.dev", email)

	me, err := uc.Me(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, me.ID)
}

func TestLogin_Errores(t *testing.T) {
	uc, repo := newAuth()
	ctx := context.Background()

	_, err := uc.Login(ctx, dto.LoginRequest{Email: "nobody@x.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@x.com", Password: "s3cretpass"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "a@x.com", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	repo.byID[u.ID].Status = entity.UserStatusDisabled
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "a@x.com", Password: "s3cretpass"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
