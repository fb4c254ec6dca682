package services

import (
	"testing"
	"time"
	"passkey_auth_ms/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func newRedisFixture(t *testing.T) (*miniredis.Miniredis, *RedisService) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, NewRedisService(client)
}

func TestRegistrationSession_RoundTripWithTTL(t *testing.T) {
	mr, svc := newRedisFixture(t)
	stored := &webauthn.SessionData{Challenge: "reg-challenge", UserID: []byte("handle-1")}

	err := svc.StoreRegistrationSessionRedis(7, stored)

	assert.NoError(t, err)
	assert.Equal(t, ceremonySessionTTL, mr.TTL("webauthn:reg:7"))

	got, err := svc.GetRegistrationSessionRedis(7)
	assert.NoError(t, err)
	assert.Equal(t, stored.Challenge, got.Challenge)
	assert.Equal(t, stored.UserID, got.UserID)
}

func TestRegistrationSession_ExpiresAfterTTL(t *testing.T) {
	mr, svc := newRedisFixture(t)
	assert.NoError(t, svc.StoreRegistrationSessionRedis(7, &webauthn.SessionData{Challenge: "reg-challenge"}))

	mr.FastForward(ceremonySessionTTL + time.Second)

	_, err := svc.GetRegistrationSessionRedis(7)
	assert.Error(t, err, "an expired session must look like a missing one")
}

func TestLoginSession_KeyedByChallengeWithTTL(t *testing.T) {
	mr, svc := newRedisFixture(t)
	stored := &webauthn.SessionData{Challenge: "login-challenge"}

	err := svc.StoreLoginSessionRedis("login-challenge", stored)

	assert.NoError(t, err)
	assert.True(t, mr.Exists("webauthn:login:login-challenge"))
	assert.Equal(t, ceremonySessionTTL, mr.TTL("webauthn:login:login-challenge"))

	got, err := svc.GetLoginSessionRedis("login-challenge")
	assert.NoError(t, err)
	assert.Equal(t, stored.Challenge, got.Challenge)
}

func TestLoginSession_DeleteConsumes(t *testing.T) {
	_, svc := newRedisFixture(t)
	assert.NoError(t, svc.StoreLoginSessionRedis("login-challenge", &webauthn.SessionData{Challenge: "login-challenge"}))

	assert.NoError(t, svc.DeleteLoginSessionRedis("login-challenge"))

	_, err := svc.GetLoginSessionRedis("login-challenge")
	assert.Error(t, err)
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	_, svc := newRedisFixture(t)
	config.Conf.Application.Security.TokenValidityInSecondsForRememberMe = 3600

	assert.NoError(t, svc.SetRefreshToken(7, "refresh-token"))

	got, err := svc.GetRefreshToken(7)
	assert.NoError(t, err)
	assert.Equal(t, "refresh-token", got)

	svc.DelRefreshToken(7)
	_, err = svc.GetRefreshToken(7)
	assert.Error(t, err)
}
