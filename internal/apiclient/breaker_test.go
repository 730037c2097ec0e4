package apiclient

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreaker_Transitions(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	b := newBreaker(2, time.Minute)
	b.now = func() time.Time { return now }

	assert.True(t, b.allow())
	b.record(true)
	assert.Equal(t, breakerClosed, b.current())
	b.record(true)
	assert.Equal(t, breakerOpen, b.current())
	assert.False(t, b.allow())

	now = now.Add(time.Minute)
	assert.True(t, b.allow(), "one trial call after the cooldown")
	assert.False(t, b.allow(), "only one trial call at a time")
	b.record(true)
	assert.Equal(t, breakerOpen, b.current())

	now = now.Add(time.Minute)
	require.True(t, b.allow())
	b.record(false)
	assert.Equal(t, breakerClosed, b.current())
	assert.True(t, b.allow())
}

func TestSend_BreakerFailsFast(t *testing.T) {
	var hits atomic.Int32
	c, _ := newTestClient(t, func(r *gin.Engine) {
		r.GET("/api/v1/recaudaciones/:id", func(ctx *gin.Context) {
			hits.Add(1)
			ctx.JSON(http.StatusInternalServerError, gin.H{"detail": "caido"})
		})
	})

	for i := 0; i < defaultBreakerFailures; i++ {
		_, err := c.GetRecaudacion(context.Background(), 1)
		assert.ErrorIs(t, err, ErrTransient)
	}
	_, err := c.GetRecaudacion(context.Background(), 1)
	assert.ErrorIs(t, err, ErrTransient)
	assert.ErrorIs(t, err, ErrServerUnavailable)
	assert.Equal(t, int32(defaultBreakerFailures), hits.Load())
}

func TestSend_ClientErrorsDoNotTrip(t *testing.T) {
	c, _ := newTestClient(t, func(r *gin.Engine) {
		r.GET("/api/v1/recaudaciones/:id", func(ctx *gin.Context) {
			ctx.JSON(http.StatusNotFound, gin.H{"detail": "Recaudacion no encontrada"})
		})
	})
	for i := 0; i < defaultBreakerFailures+2; i++ {
		_, err := c.GetRecaudacion(context.Background(), 1)
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, breakerClosed, c.breaker.current())
}
