package database

import (
	"context"
	"testing"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func TestNewRedis(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	rdb, err := NewRedis(context.Background(), RedisOpts{Addr: m.Addr()})
	require.NoError(t, err)
	require.NotNil(t, rdb)
	defer rdb.Close()
	require.NoError(t, rdb.Set(context.Background(), "k", "v", 0).Err())
}

func TestNewRedis_EmptyAddr(t *testing.T) {
	rdb, err := NewRedis(context.Background(), RedisOpts{})
	require.NoError(t, err)
	require.Nil(t, rdb)
}

func TestNewRedis_Unreachable(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	addr := m.Addr()
	m.Close()

	_, err = NewRedis(context.Background(), RedisOpts{Addr: addr})
	require.Error(t, err)
}
