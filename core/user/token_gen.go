package user

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/trezcool/academia/core"
)

var (
	tokenKeySalt = "academia.core.user.reset-link"
	NowFunc      = time.Now // mockable

	// errors
	errInvalidToken = errors.New("invalid token")
	errTokenExpired = errors.New("token expired")
)

// EncodeUID encodes the user ID for use in a reset link.
func EncodeUID(usr User) string {
	return base64.RawURLEncoding.EncodeToString([]byte(usr.ID))
}

func decodeUID(uid string) (string, error) {
	id, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return "", err
	}
	return string(id), nil
}

// MakeToken returns a reset-link token for usr, of the form "<issued>-<signature>".
// It stops verifying once the user's email, password or last login changes,
// or once conf.PasswordResetTimeoutDelta has elapsed.
func MakeToken(usr User, conf *core.Config) (string, error) {
	return signedToken(usr, NowFunc().Unix(), conf.SecretKey), nil
}

func verifyToken(usr User, token string, conf *core.Config) error {
	issuedPart, _, ok := strings.Cut(token, "-")
	if !ok {
		return errInvalidToken
	}
	issued, err := strconv.ParseInt(issuedPart, 36, 64)
	if err != nil {
		return errInvalidToken
	}
	if !hmac.Equal([]byte(signedToken(usr, issued, conf.SecretKey)), []byte(token)) {
		return errInvalidToken
	}

	age := NowFunc().Sub(time.Unix(issued, 0))
	switch {
	case age < 0:
		return errInvalidToken
	case age > conf.PasswordResetTimeoutDelta:
		return errTokenExpired
	}
	return nil
}

func signedToken(usr User, issued int64, secretKey string) string {
	key := sha256.Sum256([]byte(tokenKeySalt + secretKey))
	mac := hmac.New(sha256.New, key[:])

	// hash.Hash writes never fail
	_, _ = mac.Write([]byte(usr.ID + "|" + usr.Email + "|"))
	_, _ = mac.Write(usr.PasswordHash)
	if !usr.LastLogin.IsZero() {
		_, _ = mac.Write([]byte("|" + strconv.FormatInt(usr.LastLogin.UTC().Unix(), 10)))
	}
	_, _ = mac.Write([]byte("|" + strconv.FormatInt(issued, 10)))

	issuedPart := strconv.FormatInt(issued, 36)
	return issuedPart + "-" + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
