package menu

import (
	"context"
	"errors"
	"sync"
	"testing"

	"resto-manager/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	// 測試時不輸出日誌
	common.Logger = zap.NewNop()
}

type fakeStore struct {
	recipes     []Recipe
	ingredients []Ingredient
	getErr      error

	deleteResult DeleteResult
	deleteErr    error

	addedRecipe   *Recipe
	updatedID     string
	archivedIDs   []string
	unarchivedIDs []string
	getCalls      int
}

func (s *fakeStore) GetRecipes(ctx context.Context, includeArchived bool) ([]Recipe, error) {
	s.getCalls++
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.recipes, nil
}

func (s *fakeStore) GetIngredients(ctx context.Context) ([]Ingredient, error) {
	return s.ingredients, nil
}

func (s *fakeStore) AddRecipe(ctx context.Context, recipe Recipe) (Recipe, error) {
	recipe.ID = "generated-id"
	s.addedRecipe = &recipe
	return recipe, nil
}

func (s *fakeStore) UpdateRecipe(ctx context.Context, id string, update RecipeUpdate) (Recipe, error) {
	s.updatedID = id
	return Recipe{ID: id}, nil
}

func (s *fakeStore) DeleteRecipe(ctx context.Context, id string) (DeleteResult, error) {
	if s.deleteErr != nil {
		return DeleteResult{}, s.deleteErr
	}
	return s.deleteResult, nil
}

func (s *fakeStore) ArchiveRecipe(ctx context.Context, id string) error {
	s.archivedIDs = append(s.archivedIDs, id)
	return nil
}

func (s *fakeStore) UnarchiveRecipe(ctx context.Context, id string) error {
	s.unarchivedIDs = append(s.unarchivedIDs, id)
	return nil
}

func TestService_VisibleRecipes(t *testing.T) {
	store := &fakeStore{
		recipes: []Recipe{
			{ID: "1", Name: "Tomato Soup"},
			{ID: "2", Name: "Beef Stew", IsArchived: true},
		},
	}
	svc := NewService(store, nil)

	got, err := svc.VisibleRecipes(context.Background(), false, "", FilterCriteria{})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Tomato Soup", got[0].Name)
}

func TestService_VisibleRecipes_StoreError(t *testing.T) {
	store := &fakeStore{getErr: errors.New("connection refused")}
	svc := NewService(store, nil)

	_, err := svc.VisibleRecipes(context.Background(), false, "", FilterCriteria{})

	require.Error(t, err)
	var ce *common.CustomError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, common.ErrCodeStoreUnavailable, ce.Code)
}

func TestService_AddRecipe_Validation(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, nil)

	tests := []struct {
		name   string
		recipe Recipe
	}{
		{name: "empty name", recipe: Recipe{Name: "   ", Price: 10}},
		{name: "negative price", recipe: Recipe{Name: "Soup", Price: -1}},
		{name: "negative food cost", recipe: Recipe{Name: "Soup", Price: 10, FoodCost: -2}},
		{name: "zero ingredient quantity", recipe: Recipe{
			Name: "Soup", Price: 10,
			Ingredients: []RecipeIngredient{{IngredientID: "tomato", Quantity: 0, Unit: "kg"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddRecipe(context.Background(), tt.recipe)
			require.Error(t, err)
			assert.True(t, common.IsValidationError(err))
			// 驗證失敗不得送往遠端
			assert.Nil(t, store.addedRecipe)
		})
	}
}

func TestService_AddRecipe_Success(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, nil)

	created, err := svc.AddRecipe(context.Background(), Recipe{
		Name:  "Tomato Soup",
		Price: 12.5,
		Ingredients: []RecipeIngredient{
			{IngredientID: "tomato", Quantity: 0.5, Unit: "kg"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "generated-id", created.ID)
	require.NotNil(t, store.addedRecipe)
}

func TestService_DeleteRecipe_SalesReferences(t *testing.T) {
	store := &fakeStore{
		deleteResult: DeleteResult{Success: false, HasSalesReferences: true},
	}
	svc := NewService(store, nil)

	result, err := svc.DeleteRecipe(context.Background(), "ref-1")

	// 引用阻擋不是錯誤，而是引導呼叫端改走封存路徑的訊號
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.True(t, result.HasSalesReferences)

	// 之後封存同一品項必須可行
	require.NoError(t, svc.ArchiveRecipe(context.Background(), "ref-1"))
	assert.Equal(t, []string{"ref-1"}, store.archivedIDs)
}

func TestService_DeleteRecipe_Success(t *testing.T) {
	store := &fakeStore{
		deleteResult: DeleteResult{Success: true},
	}
	svc := NewService(store, nil)

	result, err := svc.DeleteRecipe(context.Background(), "r-1")

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.False(t, result.HasSalesReferences)
}

func TestService_ArchiveUnarchive(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, nil)

	require.NoError(t, svc.ArchiveRecipe(context.Background(), "a-1"))
	require.NoError(t, svc.UnarchiveRecipe(context.Background(), "a-1"))

	assert.Equal(t, []string{"a-1"}, store.archivedIDs)
	assert.Equal(t, []string{"a-1"}, store.unarchivedIDs)

	// 空 id 直接擋下
	assert.True(t, common.IsValidationError(svc.ArchiveRecipe(context.Background(), "")))
	assert.True(t, common.IsValidationError(svc.UnarchiveRecipe(context.Background(), "")))
}

func TestService_Ingredients(t *testing.T) {
	store := &fakeStore{
		ingredients: []Ingredient{
			{ID: "i1", Name: "Tomato", Unit: "kg"},
		},
	}
	svc := NewService(store, nil)

	got, err := svc.Ingredients(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Tomato", got[0].Name)
}

// slowFirstFetchStore 第一次抓取會卡住，直到 releaseFirst 關閉才回傳舊資料
type slowFirstFetchStore struct {
	fakeStore

	mu           sync.Mutex
	calls        int
	firstStarted chan struct{}
	releaseFirst chan struct{}
}

func (s *slowFirstFetchStore) GetRecipes(ctx context.Context, includeArchived bool) ([]Recipe, error) {
	s.mu.Lock()
	s.calls++
	n := s.calls
	s.mu.Unlock()

	if n == 1 {
		close(s.firstStarted)
		<-s.releaseFirst
		return []Recipe{{ID: "old", Name: "Old Menu"}}, nil
	}
	return []Recipe{{ID: "new", Name: "New Menu"}}, nil
}

func TestService_VisibleRecipes_StaleFetchDiscarded(t *testing.T) {
	store := &slowFirstFetchStore{
		firstStarted: make(chan struct{}),
		releaseFirst: make(chan struct{}),
	}
	svc := NewService(store, nil)

	type fetchResult struct {
		recipes []Recipe
		err     error
	}
	firstDone := make(chan fetchResult, 1)
	go func() {
		recipes, err := svc.VisibleRecipes(context.Background(), false, "", FilterCriteria{})
		firstDone <- fetchResult{recipes, err}
	}()

	// 等第一次抓取進入遠端呼叫後才發起第二次
	<-store.firstStarted
	fresh, err := svc.VisibleRecipes(context.Background(), false, "", FilterCriteria{})
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, "new", fresh[0].ID)

	// 放行第一次抓取：晚到的舊回應不得覆蓋新狀態，回傳的是較新的快照
	close(store.releaseFirst)
	first := <-firstDone
	require.NoError(t, first.err)
	require.Len(t, first.recipes, 1)
	assert.Equal(t, "new", first.recipes[0].ID)
}
