package recipe

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// NormalizeIngredients 將原始食材名稱正規化：去除前後空白、轉小寫、
// 依字典序排序。回傳顯示字串（", " 連接）與快取鍵片段（"|" 連接）。
// 不做去重：來源若回傳重複名稱，鍵裡就會帶著它們。
func NormalizeIngredients(names []string) (display string, keyFragment string) {
	normalized := make([]string, 0, len(names))
	for _, name := range names {
		normalized = append(normalized, strings.ToLower(strings.TrimSpace(name)))
	}
	sort.Strings(normalized)

	return strings.Join(normalized, ", "), strings.Join(normalized, "|")
}

// RecommendationKey 組成以使用者為範圍的快取鍵，跨使用者不共享
func RecommendationKey(userID string, keyFragment string) string {
	return fmt.Sprintf("%s:%s", userID, keyFragment)
}

// NormalizeTitle 正規化食譜標題：去除前後空白後，每個以空白分隔的
// 詞首字母大寫、其餘小寫。此形式是食譜的身份鍵。
func NormalizeTitle(raw string) string {
	words := strings.Fields(strings.TrimSpace(raw))
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
