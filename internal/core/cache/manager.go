package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"resto-manager/internal/infrastructure/config"
	"resto-manager/internal/pkg/common"

	"go.uber.org/zap"
)

// CacheManager 緩存管理器
// 以 scope + fingerprint 作為鍵，scope 用於整組失效（例如菜單異動後）
type CacheManager struct {
	config *config.Config
	mu     sync.RWMutex
	store  map[string]cacheEntry
	done   chan struct{}
	stats  cacheStats
}

// cacheEntry 緩存條目
type cacheEntry struct {
	value       string
	scope       string
	expiresAt   time.Time
	createdAt   time.Time
	lastAccess  time.Time
	accessCount int
}

// cacheStats 緩存統計
type cacheStats struct {
	hits      int64
	misses    int64
	evictions int64
}

// Stats 對外暴露的統計快照
type Stats struct {
	Entries   int   `json:"entries"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}

// NewManager 創建新的緩存管理器
func NewManager(cfg *config.Config) *CacheManager {
	if !cfg.Cache.Enabled {
		common.LogInfo("Cache disabled")
		return nil
	}

	m := &CacheManager{
		config: cfg,
		store:  make(map[string]cacheEntry),
		done:   make(chan struct{}),
		stats:  cacheStats{},
	}

	// 啟動清理過期緩存的協程
	go m.startCleanup()

	common.LogInfo("快取管理員已初始化",
		zap.Int("最大容量", cfg.Cache.MaxSize),
		zap.Duration("存活時間", cfg.Cache.TTL),
		zap.Duration("清理間隔", cfg.Cache.CleanupInterval),
	)

	return m
}

// Get 獲取緩存值
func (m *CacheManager) Get(ctx context.Context, scope, fingerprint string) (string, bool) {
	key := m.generateKey(scope, fingerprint)

	m.mu.RLock()
	entry, exists := m.store[key]
	m.mu.RUnlock()

	if !exists {
		m.mu.Lock()
		m.stats.misses++
		m.mu.Unlock()
		common.LogCacheMiss(scope, key)
		return "", false
	}

	// 檢查是否過期
	if time.Now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.store, key)
		m.stats.evictions++
		m.stats.misses++
		m.mu.Unlock()
		common.LogInfo("快取已過期",
			zap.String("類型", scope),
		)
		return "", false
	}

	// 更新訪問統計
	m.mu.Lock()
	entry.lastAccess = time.Now()
	entry.accessCount++
	m.store[key] = entry
	m.stats.hits++
	m.mu.Unlock()

	common.LogCacheHit(scope, key)
	return entry.value, true
}

// Set 設置緩存值
func (m *CacheManager) Set(ctx context.Context, scope, fingerprint, value string) {
	key := m.generateKey(scope, fingerprint)
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	// 容量滿時淘汰最久未訪問的條目
	if len(m.store) >= m.config.Cache.MaxSize {
		m.evictOldestLocked()
	}

	m.store[key] = cacheEntry{
		value:      value,
		scope:      scope,
		expiresAt:  now.Add(m.config.Cache.TTL),
		createdAt:  now,
		lastAccess: now,
	}
}

// Invalidate 使某 scope 下的所有條目失效
func (m *CacheManager) Invalidate(scope string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, entry := range m.store {
		if entry.scope == scope {
			delete(m.store, key)
			removed++
		}
	}
	if removed > 0 {
		m.stats.evictions += int64(removed)
		common.LogInfo("快取已失效",
			zap.String("類型", scope),
			zap.Int("數量", removed),
		)
	}
}

// Stats 取得統計快照
func (m *CacheManager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Stats{
		Entries:   len(m.store),
		Hits:      m.stats.hits,
		Misses:    m.stats.misses,
		Evictions: m.stats.evictions,
	}
}

// Close 停止清理協程
func (m *CacheManager) Close() {
	if m == nil {
		return
	}
	close(m.done)
}

// generateKey 生成緩存鍵
func (m *CacheManager) generateKey(scope, fingerprint string) string {
	hash := sha256.Sum256([]byte(strings.Join([]string{scope, fingerprint}, ":")))
	return hex.EncodeToString(hash[:])
}

// evictOldestLocked 淘汰最久未訪問的條目，呼叫方需持有寫鎖
func (m *CacheManager) evictOldestLocked() {
	var oldestKey string
	var oldestTime time.Time
	for key, entry := range m.store {
		if oldestKey == "" || entry.lastAccess.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.lastAccess
		}
	}
	if oldestKey != "" {
		delete(m.store, oldestKey)
		m.stats.evictions++
	}
}

// startCleanup 週期性清理過期條目
func (m *CacheManager) startCleanup() {
	ticker := time.NewTicker(m.config.Cache.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			now := time.Now()
			m.mu.Lock()
			for key, entry := range m.store {
				if now.After(entry.expiresAt) {
					delete(m.store, key)
					m.stats.evictions++
				}
			}
			m.mu.Unlock()
		}
	}
}
