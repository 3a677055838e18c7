package menu

import (
	"sort"
	"strings"
)

// DeriveVisibleRecipes 由完整品項集合推導出畫面顯示的有序清單
// 所有條件為 AND 關係；純函數，不做 I/O
func DeriveVisibleRecipes(recipes []Recipe, showArchived bool, searchQuery string, criteria FilterCriteria) []Recipe {
	query := strings.ToLower(searchQuery)

	visible := make([]Recipe, 0, len(recipes))
	for _, r := range recipes {
		// 封存分割：顯示中的清單與封存清單互斥
		if r.IsArchived != showArchived {
			continue
		}
		// 名稱搜尋：大小寫不敏感的子字串比對
		if query != "" && !strings.Contains(strings.ToLower(r.Name), query) {
			continue
		}
		// 分類：集合成員即符合（OR）
		if len(criteria.Categories) > 0 && !containsString(criteria.Categories, r.Category) {
			continue
		}
		// 過敏原：必須包含「所有」選中的過敏原（AND，沿用既有行為）
		if len(criteria.Allergens) > 0 && !containsAll(r.Allergies, criteria.Allergens) {
			continue
		}
		// 價格區間：邊界皆為閉區間
		if criteria.MinPrice != nil && r.Price < *criteria.MinPrice {
			continue
		}
		if criteria.MaxPrice != nil && r.Price > *criteria.MaxPrice {
			continue
		}
		// 成本下限：FoodCost 為 0 視為未填，任何下限條件都會排除它
		if criteria.MinFoodCost != nil && !(r.FoodCost != 0 && r.FoodCost >= *criteria.MinFoodCost) {
			continue
		}
		if criteria.MaxFoodCost != nil && r.FoodCost > *criteria.MaxFoodCost {
			continue
		}
		visible = append(visible, r)
	}

	// 固定以名稱升冪排序（穩定排序）
	sort.SliceStable(visible, func(i, j int) bool {
		return localeLess(visible[i].Name, visible[j].Name)
	})

	return visible
}

// localeLess 大小寫不敏感的名稱比較，大小寫相異時以原字串決定順序
func localeLess(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}

func containsString(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// containsAll 檢查 have 是否包含 want 的所有元素
func containsAll(have []string, want []string) bool {
	for _, w := range want {
		if !containsString(have, w) {
			return false
		}
	}
	return true
}
