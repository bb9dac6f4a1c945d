package limiter

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLimit(t *testing.T) {
	r, err := ParseLimit("60-M")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, r.Rate, 1e-9)
	assert.Equal(t, int64(60), r.Limit)
	assert.Equal(t, time.Minute, r.Period)

	r, err = ParseLimit("5-s")
	require.NoError(t, err)
	assert.InDelta(t, 5.0, r.Rate, 1e-9)

	_, err = ParseLimit("fast")
	assert.Error(t, err)
}

func TestCheckRate_MemoryStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	newContext := func() *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "/v1/payments", nil)
		return c
	}

	key := "check-rate-" + time.Now().Format(time.RFC3339Nano)
	for i := 0; i < 2; i++ {
		res, err := CheckRate(newContext(), key, "2-M")
		require.NoError(t, err)
		assert.False(t, res.Reached)
	}

	res, err := CheckRate(newContext(), key, "2-M")
	require.NoError(t, err)
	assert.True(t, res.Reached)
	assert.Equal(t, int64(0), res.Remaining)
}

func TestCheckRate_CountsOncePerRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	key := "once-" + time.Now().Format(time.RFC3339Nano)
	first, err := CheckRate(c, key, "10-M")
	require.NoError(t, err)
	second, err := CheckRate(c, key, "10-M")
	require.NoError(t, err)

	assert.Equal(t, first.Remaining, second.Remaining)
}

func TestRouteToKeyString(t *testing.T) {
	assert.Equal(t, "-v1-payments-_id", routeToKeyString("/v1/payments/:id"))
}
