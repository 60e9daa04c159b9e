package cache

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMemoryCache 测试内存缓存的基本功能
func TestMemoryCache(t *testing.T) {
	c, err := NewMemoryCache(Config{
		DefaultTTL:      time.Second * 2,
		CleanupInterval: time.Second,
	})
	require.NoError(t, err)

	require.NoError(t, c.Set("key1", "value1", 0))

	val, found, err := c.Get("key1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "value1", val)

	// 不存在的键
	_, found, err = c.Get("non-existent")
	require.NoError(t, err)
	assert.False(t, found)

	// 删除
	require.NoError(t, c.Set("to-delete", "delete-me", 0))
	require.NoError(t, c.Delete("to-delete"))
	_, found, _ = c.Get("to-delete")
	assert.False(t, found)

	// 清空
	require.NoError(t, c.Set("a", "1", 0))
	require.NoError(t, c.Clear())
	_, found, _ = c.Get("a")
	assert.False(t, found)
}

// TestMemoryCacheExpiration 测试内存缓存过期
func TestMemoryCacheExpiration(t *testing.T) {
	c, err := NewMemoryCache(Config{
		DefaultTTL:      time.Second,
		CleanupInterval: time.Millisecond * 100,
	})
	require.NoError(t, err)

	require.NoError(t, c.Set("expire-soon", "temp", time.Millisecond*200))
	time.Sleep(time.Millisecond * 400)

	_, found, err := c.Get("expire-soon")
	require.NoError(t, err)
	assert.False(t, found)
}

// TestRedisCache 使用miniredis测试Redis缓存
func TestRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedisCache(Config{
		Type:      "redis",
		RedisAddr: mr.Addr(),
	})
	require.NoError(t, err)

	require.NoError(t, c.Set("question", "answer", time.Minute))

	val, found, err := c.Get("question")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "answer", val)

	// 过期后未命中
	mr.FastForward(time.Minute * 2)
	_, found, err = c.Get("question")
	require.NoError(t, err)
	assert.False(t, found)

	// 删除和清空
	require.NoError(t, c.Set("k", "v", 0))
	require.NoError(t, c.Delete("k"))
	_, found, _ = c.Get("k")
	assert.False(t, found)
}

// TestNewCacheFactory 测试工厂创建与回退
func TestNewCacheFactory(t *testing.T) {
	c, err := NewCache(Config{Type: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryCache{}, c)

	// 未知类型回退到内存缓存
	c, err = NewCache(Config{Type: "unknown"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryCache{}, c)
}

// TestCacheKeys 测试缓存键生成
func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "prefix", GenerateCacheKey("prefix"))
	assert.Equal(t, "prefix:a:b", GenerateCacheKey("prefix", "a", "b"))

	k1 := AnswerKey("digest1", "天空是什么颜色？")
	k2 := AnswerKey("digest1", "天空是什么颜色？")
	k3 := AnswerKey("digest2", "天空是什么颜色？")
	k4 := AnswerKey("digest1", "另一个问题")

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.NotEqual(t, k1, k4)
}
