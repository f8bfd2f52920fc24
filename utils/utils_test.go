package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatOrderNumber(t *testing.T) {
	assert.Equal(t, "000001", FormatOrderNumber(1))
	assert.Equal(t, "000042", FormatOrderNumber(42))
	assert.Equal(t, "123456", FormatOrderNumber(123456))
	assert.Equal(t, "1000000", FormatOrderNumber(1000000))
}

func TestGenerateAccessToken(t *testing.T) {
	a, err := GenerateAccessToken()
	require.NoError(t, err)
	b, err := GenerateAccessToken()
	require.NoError(t, err)

	assert.Len(t, a, accessTokenLength)
	assert.NotEqual(t, a, b)
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT(Claims{
		UserID:    "u-1",
		Email:     "owner@store.test",
		Role:      "STORE_OWNER",
		StoreID:   "s-1",
		StoreSlug: "fruver",
	}, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "fruver", claims.StoreSlug)

	_, err = ParseJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestParseJWTExpired(t *testing.T) {
	token, err := GenerateJWT(Claims{UserID: "u-1"}, "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token, "secret")
	assert.Error(t, err)
}

func TestRenderEmail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order.html")
	require.NoError(t, os.WriteFile(path, []byte("<p>Pedido #{{.OrderNumber}} de {{.CustomerName}}</p>"), 0o600))

	body, err := RenderEmail(path, OrderEmailData{OrderNumber: "000007", CustomerName: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "<p>Pedido #000007 de Ana</p>", body)
}
