package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"resto-manager/internal/core/menu"
)

// GetRecipes 取得品項清單，includeArchived 控制是否包含封存品項
func (c *Client) GetRecipes(ctx context.Context, includeArchived bool) ([]menu.Recipe, error) {
	start := time.Now()
	var recipes []menu.Recipe

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("include_archived", strconv.FormatBool(includeArchived)).
		SetResult(&recipes).
		Get("/recipes")
	if err != nil {
		return nil, fmt.Errorf("get recipes: %w", err)
	}
	if err := checkResponse(resp, "get_recipes", start); err != nil {
		return nil, err
	}

	return recipes, nil
}

// GetIngredients 取得食材主檔
func (c *Client) GetIngredients(ctx context.Context) ([]menu.Ingredient, error) {
	start := time.Now()
	var ingredients []menu.Ingredient

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&ingredients).
		Get("/ingredients")
	if err != nil {
		return nil, fmt.Errorf("get ingredients: %w", err)
	}
	if err := checkResponse(resp, "get_ingredients", start); err != nil {
		return nil, err
	}

	return ingredients, nil
}

// AddRecipe 新增品項，id 由遠端指派並隨回應返回
func (c *Client) AddRecipe(ctx context.Context, recipe menu.Recipe) (menu.Recipe, error) {
	start := time.Now()
	var created menu.Recipe

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(recipe).
		SetResult(&created).
		Post("/recipes")
	if err != nil {
		return menu.Recipe{}, fmt.Errorf("add recipe: %w", err)
	}
	if err := checkResponse(resp, "add_recipe", start); err != nil {
		return menu.Recipe{}, err
	}

	return created, nil
}

// UpdateRecipe 部分更新品項
func (c *Client) UpdateRecipe(ctx context.Context, id string, update menu.RecipeUpdate) (menu.Recipe, error) {
	start := time.Now()
	var updated menu.Recipe

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(update).
		SetResult(&updated).
		Patch("/recipes/" + id)
	if err != nil {
		return menu.Recipe{}, fmt.Errorf("update recipe: %w", err)
	}
	if err := checkResponse(resp, "update_recipe", start); err != nil {
		return menu.Recipe{}, err
	}

	return updated, nil
}

// DeleteRecipe 刪除品項
// 被銷售紀錄引用時遠端回傳 has_sales_references=true 而非錯誤
func (c *Client) DeleteRecipe(ctx context.Context, id string) (menu.DeleteResult, error) {
	start := time.Now()
	var result menu.DeleteResult

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		Delete("/recipes/" + id)
	if err != nil {
		return menu.DeleteResult{}, fmt.Errorf("delete recipe: %w", err)
	}
	if err := checkResponse(resp, "delete_recipe", start); err != nil {
		return menu.DeleteResult{}, err
	}

	return result, nil
}

// ArchiveRecipe 封存品項
func (c *Client) ArchiveRecipe(ctx context.Context, id string) error {
	start := time.Now()

	resp, err := c.http.R().
		SetContext(ctx).
		Post("/recipes/" + id + "/archive")
	if err != nil {
		return fmt.Errorf("archive recipe: %w", err)
	}
	return checkResponse(resp, "archive_recipe", start)
}

// UnarchiveRecipe 取消封存
func (c *Client) UnarchiveRecipe(ctx context.Context, id string) error {
	start := time.Now()

	resp, err := c.http.R().
		SetContext(ctx).
		Post("/recipes/" + id + "/unarchive")
	if err != nil {
		return fmt.Errorf("unarchive recipe: %w", err)
	}
	return checkResponse(resp, "unarchive_recipe", start)
}
