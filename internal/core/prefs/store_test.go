package prefs

import (
	"context"
	"testing"

	"resto-manager/internal/infrastructure/config"
	"resto-manager/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	// 測試時不輸出日誌
	common.Logger = zap.NewNop()
}

// 測試用的 store 指向不存在的 redis，所有操作都會退回記憶體模式
func testStore() *Store {
	return NewStore(&config.Config{
		Prefs: config.PrefsConfig{
			RedisAddr: "127.0.0.1:1",
			Namespace: "test:prefs",
		},
	})
}

func TestIsAllowedKey(t *testing.T) {
	assert.True(t, IsAllowedKey("active_report_tab"))
	assert.True(t, IsAllowedKey("notification_preferences"))
	assert.False(t, IsAllowedKey("arbitrary_key"))
	assert.False(t, IsAllowedKey(""))
}

func TestStore_SetGet_MemoryFallback(t *testing.T) {
	s := testStore()
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "biz-1", "active_report_tab", `"inventory"`))

	value, err := s.Get(ctx, "biz-1", "active_report_tab")
	require.NoError(t, err)
	assert.Equal(t, `"inventory"`, value)

	// 不同商家彼此隔離
	value, err = s.Get(ctx, "biz-2", "active_report_tab")
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestStore_Set_OverwritesWholeBlob(t *testing.T) {
	s := testStore()
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "biz-1", "notification_preferences", `{"low_stock":true,"daily_report":true}`))
	require.NoError(t, s.Set(ctx, "biz-1", "notification_preferences", `{"low_stock":false}`))

	value, err := s.Get(ctx, "biz-1", "notification_preferences")
	require.NoError(t, err)
	assert.Equal(t, `{"low_stock":false}`, value)
}

func TestStore_RejectsUnknownKey(t *testing.T) {
	s := testStore()
	defer s.Close()
	ctx := context.Background()

	err := s.Set(ctx, "biz-1", "arbitrary_key", `{}`)
	require.Error(t, err)
	var validationErr *common.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "key", validationErr.Field)

	_, err = s.Get(ctx, "biz-1", "arbitrary_key")
	require.Error(t, err)
}

func TestStore_RejectsInvalidJSON(t *testing.T) {
	s := testStore()
	defer s.Close()

	err := s.Set(context.Background(), "biz-1", "active_report_tab", `{not json`)
	require.Error(t, err)
	var validationErr *common.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "value", validationErr.Field)
}

func TestStore_Get_MissingKeyReturnsEmpty(t *testing.T) {
	s := testStore()
	defer s.Close()

	value, err := s.Get(context.Background(), "biz-1", "active_report_tab")
	require.NoError(t, err)
	assert.Empty(t, value)
}
