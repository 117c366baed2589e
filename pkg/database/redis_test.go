package database

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/leetcode-bot/internal/config"
)

func TestRedisOptions(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.RedisConfig
		wantAddrs []string
		wantErr   bool
	}{
		{name: "single from addr", cfg: config.RedisConfig{Addr: "a:6379"}, wantAddrs: []string{"a:6379"}},
		{name: "single keeps first address", cfg: config.RedisConfig{Mode: "single", Addrs: []string{"a:1", "b:2"}}, wantAddrs: []string{"a:1"}},
		{name: "cluster keeps all", cfg: config.RedisConfig{Mode: "cluster", Addrs: []string{"a:1", "b:2"}}, wantAddrs: []string{"a:1", "b:2"}},
		{name: "sentinel without master", cfg: config.RedisConfig{Mode: "sentinel", Addrs: []string{"a:1"}}, wantErr: true},
		{name: "no address", cfg: config.RedisConfig{}, wantErr: true},
		{name: "unknown mode", cfg: config.RedisConfig{Mode: "ring", Addr: "a:1"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := redisOptions(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAddrs, opts.Addrs)
		})
	}
}

func TestRedisOptions_Sentinel(t *testing.T) {
	opts, err := redisOptions(config.RedisConfig{Mode: "sentinel", Addrs: []string{"a:26379"}, MasterName: "main", MinRetryBackoff: 10})
	require.NoError(t, err)
	assert.Equal(t, "main", opts.MasterName)
	assert.Equal(t, 10*time.Millisecond, opts.MinRetryBackoff)
}

func TestNewUniversalRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewUniversalRedisClient(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
}

func TestNewUniversalRedisClient_PingTimeout(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	start := time.Now()
	_, err := NewUniversalRedisClient(context.Background(), config.RedisConfig{
		Addr:        addr,
		PingTimeout: 200 * time.Millisecond,
	})

	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}
