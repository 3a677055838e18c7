package menu

import "context"

// Recipe 菜單品項
type Recipe struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Price       float64            `json:"price"`
	Category    string             `json:"category,omitempty"`
	FoodCost    float64            `json:"food_cost,omitempty"` // 0 視為未設定
	Ingredients []RecipeIngredient `json:"ingredients"`
	Allergies   []string           `json:"allergies"`
	IsArchived  bool               `json:"is_archived"`
	Popularity  int                `json:"popularity,omitempty"` // 0–100，僅供顯示
}

// RecipeIngredient 品項的食材引用
type RecipeIngredient struct {
	IngredientID string  `json:"ingredient_id"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
}

// Ingredient 食材主檔（僅用於名稱解析）
type Ingredient struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Unit string `json:"unit"`
}

// FilterCriteria 使用者選擇的過濾條件
// 指標欄位為 nil 表示未設定該邊界
type FilterCriteria struct {
	Categories  []string `json:"categories"`
	Allergens   []string `json:"allergens"`
	MinPrice    *float64 `json:"min_price,omitempty"`
	MaxPrice    *float64 `json:"max_price,omitempty"`
	MinFoodCost *float64 `json:"min_food_cost,omitempty"`
	MaxFoodCost *float64 `json:"max_food_cost,omitempty"`
}

// RecipeUpdate 部分更新，nil 欄位表示不變更
type RecipeUpdate struct {
	Name        *string             `json:"name,omitempty"`
	Price       *float64            `json:"price,omitempty"`
	Category    *string             `json:"category,omitempty"`
	FoodCost    *float64            `json:"food_cost,omitempty"`
	Ingredients *[]RecipeIngredient `json:"ingredients,omitempty"`
	Allergies   *[]string           `json:"allergies,omitempty"`
}

// DeleteResult 刪除操作結果
// HasSalesReferences 為 true 時前端只能改走封存路徑
type DeleteResult struct {
	Success            bool `json:"success"`
	HasSalesReferences bool `json:"has_sales_references"`
}

// Store 遠端資料庫對菜單資料的操作介面
type Store interface {
	GetRecipes(ctx context.Context, includeArchived bool) ([]Recipe, error)
	GetIngredients(ctx context.Context) ([]Ingredient, error)
	AddRecipe(ctx context.Context, recipe Recipe) (Recipe, error)
	UpdateRecipe(ctx context.Context, id string, update RecipeUpdate) (Recipe, error)
	DeleteRecipe(ctx context.Context, id string) (DeleteResult, error)
	ArchiveRecipe(ctx context.Context, id string) error
	UnarchiveRecipe(ctx context.Context, id string) error
}
