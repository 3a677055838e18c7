package menu

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"resto-manager/internal/core/cache"
	"resto-manager/internal/pkg/common"

	"go.uber.org/zap"
)

const cacheScope = "menu"

// Service 菜單服務
// --------------------------------------------------
type Service struct {
	store        Store
	cacheManager *cache.CacheManager

	// 每次抓取帶上遞增的世代號，晚到的舊回應不得覆蓋新狀態
	mu         sync.Mutex
	nextGen    uint64
	appliedGen uint64
	snapshot   []Recipe
}

// NewService 創建新的菜單服務
func NewService(store Store, cacheManager *cache.CacheManager) *Service {
	return &Service{
		store:        store,
		cacheManager: cacheManager,
	}
}

// VisibleRecipes 抓取並推導畫面顯示的品項清單
func (s *Service) VisibleRecipes(ctx context.Context, showArchived bool, searchQuery string, criteria FilterCriteria) ([]Recipe, error) {
	recipes, err := s.fetchRecipes(ctx)
	if err != nil {
		return nil, err
	}
	return DeriveVisibleRecipes(recipes, showArchived, searchQuery, criteria), nil
}

// fetchRecipes 抓取完整品項集合（含封存），整份取代上一份快照
func (s *Service) fetchRecipes(ctx context.Context) ([]Recipe, error) {
	// 先查快取
	if s.cacheManager != nil {
		if cached, ok := s.cacheManager.Get(ctx, cacheScope, "recipes:all"); ok {
			var recipes []Recipe
			if err := common.ParseJSON(cached, &recipes); err == nil {
				return recipes, nil
			}
			common.LogWarn("快取內容解析失敗，改走遠端")
		}
	}

	s.mu.Lock()
	s.nextGen++
	gen := s.nextGen
	s.mu.Unlock()

	recipes, err := s.store.GetRecipes(ctx, true)
	if err != nil {
		common.LogError("抓取品項失敗", zap.Error(err))
		return nil, common.NewError(common.ErrCodeStoreUnavailable, "無法取得菜單資料", common.ErrStoreUnavailable.Status, err)
	}

	s.mu.Lock()
	if gen < s.appliedGen {
		// 有更新的抓取已完成，丟棄這份過期結果
		recipes = append([]Recipe(nil), s.snapshot...)
		s.mu.Unlock()
		common.LogDebug("丟棄過期的抓取結果", zap.Uint64("generation", gen))
		return recipes, nil
	}
	s.appliedGen = gen
	s.snapshot = recipes
	s.mu.Unlock()

	if s.cacheManager != nil {
		if data, err := common.ToJSON(recipes); err == nil {
			s.cacheManager.Set(ctx, cacheScope, "recipes:all", data)
		}
	}

	return recipes, nil
}

// Ingredients 取得食材主檔
func (s *Service) Ingredients(ctx context.Context) ([]Ingredient, error) {
	if s.cacheManager != nil {
		if cached, ok := s.cacheManager.Get(ctx, cacheScope, "ingredients"); ok {
			var ingredients []Ingredient
			if err := common.ParseJSON(cached, &ingredients); err == nil {
				return ingredients, nil
			}
		}
	}

	ingredients, err := s.store.GetIngredients(ctx)
	if err != nil {
		common.LogError("抓取食材主檔失敗", zap.Error(err))
		return nil, common.NewError(common.ErrCodeStoreUnavailable, "無法取得食材資料", common.ErrStoreUnavailable.Status, err)
	}

	if s.cacheManager != nil {
		if data, err := common.ToJSON(ingredients); err == nil {
			s.cacheManager.Set(ctx, cacheScope, "ingredients", data)
		}
	}

	return ingredients, nil
}

// AddRecipe 新增品項，id 由遠端指派
func (s *Service) AddRecipe(ctx context.Context, recipe Recipe) (Recipe, error) {
	if err := ValidateRecipe(recipe); err != nil {
		return Recipe{}, err
	}

	created, err := s.store.AddRecipe(ctx, recipe)
	if err != nil {
		common.LogError("新增品項失敗", zap.String("name", recipe.Name), zap.Error(err))
		return Recipe{}, common.NewError(common.ErrCodeStoreUnavailable, "無法新增品項", common.ErrStoreUnavailable.Status, err)
	}

	s.invalidate()
	common.LogInfo("品項已新增", zap.String("id", created.ID), zap.String("name", created.Name))
	return created, nil
}

// UpdateRecipe 部分更新品項
func (s *Service) UpdateRecipe(ctx context.Context, id string, update RecipeUpdate) (Recipe, error) {
	if id == "" {
		return Recipe{}, common.NewValidationError("id", "品項 id 不可為空")
	}
	if err := validateUpdate(update); err != nil {
		return Recipe{}, err
	}

	updated, err := s.store.UpdateRecipe(ctx, id, update)
	if err != nil {
		common.LogError("更新品項失敗", zap.String("id", id), zap.Error(err))
		return Recipe{}, common.NewError(common.ErrCodeStoreUnavailable, "無法更新品項", common.ErrStoreUnavailable.Status, err)
	}

	s.invalidate()
	return updated, nil
}

// DeleteRecipe 刪除品項
// 若品項被銷售紀錄引用，回傳 Success=false 且 HasSalesReferences=true，
// 呼叫端此時只能改走封存路徑
func (s *Service) DeleteRecipe(ctx context.Context, id string) (DeleteResult, error) {
	if id == "" {
		return DeleteResult{}, common.NewValidationError("id", "品項 id 不可為空")
	}

	result, err := s.store.DeleteRecipe(ctx, id)
	if err != nil {
		common.LogError("刪除品項失敗", zap.String("id", id), zap.Error(err))
		return DeleteResult{}, common.NewError(common.ErrCodeStoreUnavailable, "無法刪除品項", common.ErrStoreUnavailable.Status, err)
	}

	if result.HasSalesReferences {
		common.LogInfo("品項被銷售紀錄引用，建議改用封存", zap.String("id", id))
		return result, nil
	}

	s.invalidate()
	return result, nil
}

// ArchiveRecipe 封存品項（軟刪除）
func (s *Service) ArchiveRecipe(ctx context.Context, id string) error {
	if id == "" {
		return common.NewValidationError("id", "品項 id 不可為空")
	}
	if err := s.store.ArchiveRecipe(ctx, id); err != nil {
		common.LogError("封存品項失敗", zap.String("id", id), zap.Error(err))
		return common.NewError(common.ErrCodeStoreUnavailable, "無法封存品項", common.ErrStoreUnavailable.Status, err)
	}
	s.invalidate()
	return nil
}

// UnarchiveRecipe 取消封存
func (s *Service) UnarchiveRecipe(ctx context.Context, id string) error {
	if id == "" {
		return common.NewValidationError("id", "品項 id 不可為空")
	}
	if err := s.store.UnarchiveRecipe(ctx, id); err != nil {
		common.LogError("取消封存失敗", zap.String("id", id), zap.Error(err))
		return common.NewError(common.ErrCodeStoreUnavailable, "無法取消封存", common.ErrStoreUnavailable.Status, err)
	}
	s.invalidate()
	return nil
}

// invalidate 菜單異動後清除快取與快照
func (s *Service) invalidate() {
	if s.cacheManager != nil {
		s.cacheManager.Invalidate(cacheScope)
	}
	s.mu.Lock()
	s.snapshot = nil
	s.mu.Unlock()
}

// ValidateRecipe 驗證品項欄位，錯誤以 inline 形式回給表單，不送往遠端
func ValidateRecipe(r Recipe) error {
	if strings.TrimSpace(r.Name) == "" {
		return common.NewValidationError("name", "品項名稱不可為空")
	}
	if r.Price < 0 {
		return common.NewValidationError("price", "價格不可為負數")
	}
	if r.FoodCost < 0 {
		return common.NewValidationError("food_cost", "成本不可為負數")
	}
	for i, ing := range r.Ingredients {
		if ing.IngredientID == "" {
			return common.NewValidationError(fmt.Sprintf("ingredients[%d].ingredient_id", i), "食材 id 不可為空")
		}
		if ing.Quantity <= 0 {
			return common.NewValidationError(fmt.Sprintf("ingredients[%d].quantity", i), "食材數量必須大於 0")
		}
	}
	return nil
}

// validateUpdate 驗證部分更新欄位
func validateUpdate(u RecipeUpdate) error {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return common.NewValidationError("name", "品項名稱不可為空")
	}
	if u.Price != nil && *u.Price < 0 {
		return common.NewValidationError("price", "價格不可為負數")
	}
	if u.FoodCost != nil && *u.FoodCost < 0 {
		return common.NewValidationError("food_cost", "成本不可為負數")
	}
	if u.Ingredients != nil {
		for i, ing := range *u.Ingredients {
			if ing.Quantity <= 0 {
				return common.NewValidationError(fmt.Sprintf("ingredients[%d].quantity", i), "食材數量必須大於 0")
			}
		}
	}
	return nil
}
