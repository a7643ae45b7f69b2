package util

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// PlainText 提取 HTML 正文的纯文本，<br> 视为换行
func PlainText(html string) string {
	if !strings.ContainsAny(html, "<&") {
		return strings.TrimSpace(html)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}
	doc.Find("br").ReplaceWithHtml("\n")
	return strings.TrimSpace(doc.Text())
}

// Summary 纯文本摘要，超过 maxRunes 时截断并追加省略号
func Summary(html string, maxRunes int) string {
	text := strings.Join(strings.Fields(PlainText(html)), " ")
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxRunes]) + "…"
}

// StrToInt64 Convert string to int64
func StrToInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// Int64OrDefault 解析失败或为空时返回默认值
func Int64OrDefault(s string, def int64) int64 {
	if s == "" {
		return def
	}
	v, err := StrToInt64(s)
	if err != nil {
		return def
	}
	return v
}

// DefaultIfEmpty Return default value if string is empty
func DefaultIfEmpty(s, defaultVal string) string {
	if s == "" {
		return defaultVal
	}
	return s
}
