package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core"
)

func tokenAt(t *testing.T, usr User, conf *core.Config, at time.Time) string {
	t.Helper()
	NowFunc = func() time.Time { return at }
	defer func() { NowFunc = time.Now }()

	token, err := MakeToken(usr, conf)
	require.NoError(t, err)
	return token
}

func TestMakeVerifyToken(t *testing.T) {
	conf := core.NewTestConfig()
	conf.PasswordResetTimeoutDelta = 2 * time.Hour

	now := time.Now()
	usr := User{
		ID:        "7d1c5a52-6f0e-4a3c-9b66-3a6f1a0de2c1",
		Name:      "T",
		Email:     "t@test.test",
		Role:      RoleStudent,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
		LastLogin: now,
	}
	require.NoError(t, usr.SetPassword("pwd"))

	validToken := tokenAt(t, usr, conf, now)
	hourOld := tokenAt(t, usr, conf, now.Add(-time.Hour))
	expired := tokenAt(t, usr, conf, now.Add(-3*time.Hour))
	fromFuture := tokenAt(t, usr, conf, now.Add(time.Hour))

	pwdChanged := usr
	require.NoError(t, pwdChanged.SetPassword("new-pwd"))
	emailChanged := usr
	emailChanged.Email = "other@test.test"
	loggedIn := usr
	loggedIn.LastLogin = now.Add(time.Minute)

	tests := []struct {
		name    string
		usr     User
		token   string
		wantErr error
	}{
		{name: "no token", usr: usr, wantErr: errInvalidToken},
		{name: "no separator", usr: usr, token: "lmaooolol", wantErr: errInvalidToken},
		{name: "invalid timestamp", usr: usr, token: "%%-sigsig", wantErr: errInvalidToken},
		{name: "forged signature", usr: usr, token: "kf12oi-sigsig", wantErr: errInvalidToken},
		{name: "expired", usr: usr, token: expired, wantErr: errTokenExpired},
		{name: "issued in the future", usr: usr, token: fromFuture, wantErr: errInvalidToken},
		{name: "password changed", usr: pwdChanged, token: validToken, wantErr: errInvalidToken},
		{name: "email changed", usr: emailChanged, token: validToken, wantErr: errInvalidToken},
		{name: "logged in since", usr: loggedIn, token: validToken, wantErr: errInvalidToken},
		{name: "within a sub-day timeout", usr: usr, token: hourOld},
		{name: "valid", usr: usr, token: validToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantErr, verifyToken(tt.usr, tt.token, conf))
		})
	}
}

func TestEncodeDecodeUID(t *testing.T) {
	usr := User{ID: "2b0f7c8e-1d5e-4c43-a3f4-8b1f1f9d3e77"}
	uid, err := decodeUID(EncodeUID(usr))
	require.NoError(t, err)
	assert.Equal(t, usr.ID, uid)

	_, err = decodeUID("%%%")
	assert.Error(t, err)
}
