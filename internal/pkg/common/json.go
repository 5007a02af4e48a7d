package common

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ParseJSON 解析 JSON 字符串到結構體
func ParseJSON(data string, v interface{}) error {
	return decodeJSON(strings.NewReader(data), v, false)
}

// ParseJSONStrict 解析 JSON 字符串到結構體（禁止未知欄位）
func ParseJSONStrict(data string, v interface{}) error {
	return decodeJSON(strings.NewReader(data), v, true)
}

func decodeJSON(r io.Reader, v interface{}, disallowUnknown bool) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if disallowUnknown {
		dec.DisallowUnknownFields()
	}

	if err := dec.Decode(v); err != nil {
		return err
	}

	// 確保沒有多餘資料
	for {
		t, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		// 若讀到額外 token，視為錯誤
		if t != nil {
			return fmt.Errorf("unexpected extra JSON data")
		}
	}
}

var fencePattern = regexp.MustCompile("```(?:json)?\n?")

// StripCodeFence 去除模型回應外層的 Markdown 程式碼圍欄
func StripCodeFence(raw string) string {
	return strings.TrimSpace(fencePattern.ReplaceAllString(raw, ""))
}

// ExtractJSONObject 取出第一個 { 到最後一個 } 之間的內容
func ExtractJSONObject(raw string) string {
	content := StripCodeFence(raw)
	if start, end := strings.Index(content, "{"), strings.LastIndex(content, "}"); start != -1 && end != -1 && end > start {
		return content[start : end+1]
	}
	return content
}

// ExtractJSONArray 取出第一個 [ 到最後一個 ] 之間的內容
func ExtractJSONArray(raw string) string {
	content := StripCodeFence(raw)
	if start, end := strings.Index(content, "["), strings.LastIndex(content, "]"); start != -1 && end != -1 && end > start {
		return content[start : end+1]
	}
	return content
}

var unquotedKeyPattern = regexp.MustCompile(`([{\[,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)

// QuoteJSONKeys 將未加雙引號的鍵補上雙引號
func QuoteJSONKeys(raw string) string {
	return unquotedKeyPattern.ReplaceAllString(raw, `$1"$2":`)
}

// ToJSON 將結構體轉換為 JSON 字符串
func ToJSON(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
