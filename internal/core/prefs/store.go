package prefs

import (
	"context"
	"fmt"
	"sync"

	"resto-manager/internal/infrastructure/config"
	"resto-manager/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// 允許儲存的偏好鍵，整份 JSON blob 覆寫、不做版本化
var allowedKeys = map[string]bool{
	"active_report_tab":        true,
	"notification_preferences": true,
}

// IsAllowedKey 檢查偏好鍵是否在白名單內
func IsAllowedKey(key string) bool {
	return allowedKeys[key]
}

// Store 偏好設定儲存
// redis 為主要後端；redis 失效時退回行程內記憶體並繼續服務
type Store struct {
	config *config.Config
	client *redis.Client

	mu       sync.RWMutex
	fallback map[string]string
}

// NewStore 創建偏好設定儲存
func NewStore(cfg *config.Config) *Store {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Prefs.RedisAddr,
		Password: cfg.Prefs.RedisPassword,
		DB:       cfg.Prefs.RedisDB,
	})

	// 測試連接；失敗不阻止啟動，之後每次操作都先試 redis
	if err := client.Ping(context.Background()).Err(); err != nil {
		common.LogWarn("偏好設定 redis 連線失敗，先以記憶體模式服務",
			zap.String("addr", cfg.Prefs.RedisAddr),
			zap.Error(err),
		)
	}

	return &Store{
		config:   cfg,
		client:   client,
		fallback: make(map[string]string),
	}
}

// Get 取得偏好 blob；不存在時回傳空字串
func (s *Store) Get(ctx context.Context, businessID, key string) (string, error) {
	if !IsAllowedKey(key) {
		return "", common.NewValidationError("key", "不支援的偏好鍵")
	}

	redisKey := s.redisKey(businessID, key)
	value, err := s.client.Get(ctx, redisKey).Result()
	if err == nil {
		return value, nil
	}
	if err == redis.Nil {
		return "", nil
	}

	// redis 失效，退回記憶體
	common.LogWarn("偏好設定讀取退回記憶體", zap.String("key", key), zap.Error(err))
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fallback[redisKey], nil
}

// Set 整份覆寫偏好 blob
func (s *Store) Set(ctx context.Context, businessID, key, value string) error {
	if !IsAllowedKey(key) {
		return common.NewValidationError("key", "不支援的偏好鍵")
	}
	// blob 必須是合法 JSON
	var blob interface{}
	if err := common.ParseJSON(value, &blob); err != nil {
		return common.NewValidationError("value", "偏好內容必須是合法 JSON")
	}

	redisKey := s.redisKey(businessID, key)
	if err := s.client.Set(ctx, redisKey, value, 0).Err(); err != nil {
		// redis 失效，寫入記憶體保底
		common.LogWarn("偏好設定寫入退回記憶體", zap.String("key", key), zap.Error(err))
		s.mu.Lock()
		s.fallback[redisKey] = value
		s.mu.Unlock()
		return nil
	}

	// redis 恢復後，同步記憶體值避免讀到舊資料
	s.mu.Lock()
	delete(s.fallback, redisKey)
	s.mu.Unlock()
	return nil
}

// Close 關閉 redis 連線
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) redisKey(businessID, key string) string {
	return fmt.Sprintf("%s:%s:%s", s.config.Prefs.Namespace, businessID, key)
}
