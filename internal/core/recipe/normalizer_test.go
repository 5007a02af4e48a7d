package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNormalizeIngredients_OrderIndependent 同一組食材不論順序、大小寫、
// 空白，鍵與顯示字串都必須相同
func TestNormalizeIngredients_OrderIndependent(t *testing.T) {
	permutations := [][]string{
		{"egg", "flour", "milk"},
		{"milk", "egg", "flour"},
		{"Flour", "MILK", "Egg"},
		{" flour ", "milk", "  EGG"},
	}

	for _, names := range permutations {
		display, fragment := NormalizeIngredients(names)
		assert.Equal(t, "egg, flour, milk", display)
		assert.Equal(t, "egg|flour|milk", fragment)
	}
}

// TestNormalizeIngredients_NoDedup 正規化只排序不去重，重複名稱會留在鍵裡
func TestNormalizeIngredients_NoDedup(t *testing.T) {
	display, fragment := NormalizeIngredients([]string{"Tomato", " onion ", "ONION"})
	assert.Equal(t, "onion, onion, tomato", display)
	assert.Equal(t, "onion|onion|tomato", fragment)

	// 順序不影響結果
	display2, fragment2 := NormalizeIngredients([]string{"ONION", "Tomato", " onion "})
	assert.Equal(t, display, display2)
	assert.Equal(t, fragment, fragment2)
}

// TestRecommendationKey_UserScoped 鍵以使用者為範圍，不跨使用者共享
func TestRecommendationKey_UserScoped(t *testing.T) {
	_, fragment := NormalizeIngredients([]string{"egg", "flour", "milk"})

	assert.Equal(t, "user-1:egg|flour|milk", RecommendationKey("user-1", fragment))
	assert.NotEqual(t,
		RecommendationKey("user-1", fragment),
		RecommendationKey("user-2", fragment),
	)
}

// TestNormalizeTitle 標題正規化：去空白、逐詞首字母大寫
func TestNormalizeTitle(t *testing.T) {
	cases := map[string]string{
		"  chicken BIRYANI ": "Chicken Biryani",
		"Chicken Biryani":    "Chicken Biryani",
		"pad    thai":        "Pad Thai",
		"toast":              "Toast",
		"":                   "",
	}

	for input, expected := range cases {
		assert.Equal(t, expected, NormalizeTitle(input), "input: %q", input)
	}
}
