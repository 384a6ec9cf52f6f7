package bot

import (
	"fmt"
	"html"

	"github.com/microcosm-cc/bluemonday"

	"gourmet-search/internal/model"
)

var strictPolicy = bluemonday.StrictPolicy()

// plainText strips any markup the provider left in a field.
func plainText(s string) string {
	return html.UnescapeString(strictPolicy.Sanitize(s))
}

func htmlText(s string) string {
	return html.EscapeString(plainText(s))
}

func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}

func formatShopCaption(shop model.Shop) string {
	caption := fmt.Sprintf("🍽 %s\n📍 %s", plainText(shop.Name), plainText(shop.Address))
	if shop.Genre != "" {
		caption += "\n🏷 " + plainText(shop.Genre)
	}
	return truncateRunes(caption, telegramCaptionLimit)
}

func formatShopDescription(shop model.Shop) string {
	name := htmlText(shop.Name)
	if shop.URL != "" {
		name = fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(shop.URL), name)
	}
	return fmt.Sprintf("%s\n%s", name, htmlText(shop.Address))
}

func formatPageHeader(currentPage, total int) string {
	return fmt.Sprintf("店舗一覧 (ページ: %d / 全%d件)", currentPage, total)
}
