package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndolgikh/marketcore/internal/hash"
	"github.com/ndolgikh/marketcore/internal/transport"
)

func validRegisterRequest() transport.RegisterRequest {
	return transport.RegisterRequest{
		FirstName: "Jamie",
		LastName:  "Lee",
		Email:     "jamie@example.com",
		Username:  "jamie",
		Password:  "secret",
		Mobile:    "79161234567",
	}
}

func TestUserService_Register_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*transport.RegisterRequest)
	}{
		{name: "empty username", mutate: func(r *transport.RegisterRequest) { r.Username = "" }},
		{name: "empty password", mutate: func(r *transport.RegisterRequest) { r.Password = "" }},
		{name: "email without at", mutate: func(r *transport.RegisterRequest) { r.Email = "jamie.example.com" }},
		{name: "email without dotted domain", mutate: func(r *transport.RegisterRequest) { r.Email = "jamie@example" }},
		{name: "email with empty local part", mutate: func(r *transport.RegisterRequest) { r.Email = "@example.com" }},
		{name: "mobile not digit led", mutate: func(r *transport.RegisterRequest) { r.Mobile = "+79161234567" }},
		{name: "empty mobile", mutate: func(r *transport.RegisterRequest) { r.Mobile = "" }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req := validRegisterRequest()
			tt.mutate(&req)

			_, err := env.Users.Register(ctx, req)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestUserService_Register_HashesPassword(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.Users.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	assert.Equal(t, "user", user.Role)
	assert.NotEqual(t, "secret", user.PasswordHash)
	assert.True(t, hash.CheckPassword(user.PasswordHash, "secret"))
}

func TestUserService_Register_Duplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.Users.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	dupUsername := validRegisterRequest()
	dupUsername.Email = "other@example.com"
	_, err = env.Users.Register(ctx, dupUsername)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIntegrity)

	dupEmail := validRegisterRequest()
	dupEmail.Username = "other"
	_, err = env.Users.Register(ctx, dupEmail)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIntegrity)
}

func TestUserService_Login(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registered, err := env.Users.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	token, user, err := env.Users.Login(ctx, transport.LoginRequest{Username: "jamie", Password: "secret"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, registered.ID, user.ID)

	_, _, err = env.Users.Login(ctx, transport.LoginRequest{Username: "jamie", Password: "wrong"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, _, err = env.Users.Login(ctx, transport.LoginRequest{Username: "ghost", Password: "secret"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
