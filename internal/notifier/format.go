package notifier

import (
	"fmt"
	"strings"

	"rentradar/internal/models"
)

// Format match notification for Telegram
func FormatMatch(property *models.Property, match *models.Match, blurb string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("🏠 *%s*\n\n", EscapeMarkdown(property.Title)))

	if blurb != "" {
		sb.WriteString(fmt.Sprintf("_%s_\n\n", EscapeMarkdown(blurb)))
	}

	sb.WriteString(fmt.Sprintf("📍 *City:* %s\n", EscapeMarkdown(property.City)))
	sb.WriteString(fmt.Sprintf("💰 *Rent:* %s\n", EscapeMarkdown(FormatPrice(property.Price))))

	if property.Bedrooms != nil {
		sb.WriteString(fmt.Sprintf("🛏 *Bedrooms:* %d\n", *property.Bedrooms))
	}

	if property.Furnished != nil {
		furnished := "no"
		if *property.Furnished {
			furnished = "yes"
		}
		sb.WriteString(fmt.Sprintf("🪑 *Furnished:* %s\n", furnished))
	}

	sb.WriteString(fmt.Sprintf("⭐️ *Match score:* %d\n", match.MatchScore))

	if property.URL != "" {
		sb.WriteString(fmt.Sprintf("\n🔗 [Open listing](%s)", property.URL))
	}

	return sb.String()
}

func FormatPrice(price float64) string {
	if price == float64(int64(price)) {
		return fmt.Sprintf("€%d /month", int64(price))
	}
	return fmt.Sprintf("€%.2f /month", price)
}

// EscapeMarkdown escapes the characters Telegram MarkdownV2 reserves.
func EscapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"]", "\\]",
		"(", "\\(",
		")", "\\)",
		"~", "\\~",
		"`", "\\`",
		">", "\\>",
		"#", "\\#",
		"+", "\\+",
		"-", "\\-",
		"=", "\\=",
		"|", "\\|",
		"{", "\\{",
		"}", "\\}",
		".", "\\.",
		"!", "\\!",
	)
	return replacer.Replace(text)
}
