package notify

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"restaurant-api/models"

	"github.com/dustin/go-humanize"
)

const restaurantTitle = "مطعم أكل ونوم واستكشف"

// FormatOrderMessage renders the staff notification in Telegram HTML.
// Customer-supplied text is escaped.
func FormatOrderMessage(o models.Order) string {
	lines := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, fmt.Sprintf("• %s × %d = %s",
			html.EscapeString(it.Name), it.Quantity, html.EscapeString(it.Price)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🛒 <b>طلب جديد من %s</b>\n\n", restaurantTitle)
	fmt.Fprintf(&b, "👤 <b>العميل:</b> %s\n", html.EscapeString(o.CustomerName))
	fmt.Fprintf(&b, "📞 <b>الهاتف:</b> %s\n", html.EscapeString(o.CustomerPhone))
	fmt.Fprintf(&b, "📍 <b>العنوان:</b> %s\n\n", html.EscapeString(o.CustomerAddress))
	fmt.Fprintf(&b, "🍽️ <b>الطلبات:</b>\n%s\n\n", strings.Join(lines, "\n"))
	fmt.Fprintf(&b, "💰 <b>المجموع:</b> %s %s\n\n", humanize.Comma(o.TotalPrice), models.CurrencyLabel)
	fmt.Fprintf(&b, "⏰ <b>وقت الطلب:</b> %s", html.EscapeString(o.OrderDate))
	if o.Notes != "" {
		fmt.Fprintf(&b, "\n\n📝 <b>ملاحظات:</b> %s", html.EscapeString(o.Notes))
	}
	return b.String()
}

// FormatPlainMessage is the summary used by the WhatsApp composer link.
func FormatPlainMessage(o models.Order) string {
	lines := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, fmt.Sprintf("- %s x%d = %s", it.Name, it.Quantity, it.Price))
	}
	return fmt.Sprintf("طلب جديد من %s\nالهاتف: %s\nالعنوان: %s\n\nالطلبات:\n%s\n\nالمجموع: %d %s",
		o.CustomerName, o.CustomerPhone, o.CustomerAddress,
		strings.Join(lines, "\n"), o.TotalPrice, models.CurrencyLabel)
}

// WhatsAppLink builds the wa.me composer URL pre-filled with the order summary.
func WhatsAppLink(phone string, o models.Order) string {
	text := strings.ReplaceAll(url.QueryEscape(FormatPlainMessage(o)), "+", "%20")
	return "https://wa.me/" + digitsOnly(phone) + "?text=" + text
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
