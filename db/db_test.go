package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_Defaults(t *testing.T) {
	o := Options{}.withDefaults()
	assert.Equal(t, 25, o.MaxOpenConns)
	assert.Equal(t, 25, o.MaxIdleConns)
	assert.Equal(t, 5*time.Minute, o.ConnMaxLifetime)
	assert.Equal(t, 5*time.Second, o.PingTimeout)

	o = Options{MaxOpenConns: 4, MaxIdleConns: 10}.withDefaults()
	assert.Equal(t, 4, o.MaxIdleConns)
}

func TestConnect_EmptyDSN(t *testing.T) {
	_, err := Connect(context.Background(), "", Options{})
	require.Error(t, err)
}
