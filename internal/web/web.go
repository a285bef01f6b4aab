// Package web holds the storefront and admin HTML templates.
package web

import (
	"embed"
	"html/template"
	"time"

	"github.com/fourways-coffee/storefront/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses every page with the shared header and footer. Amounts
// without an explicit currency are rendered in currency.
func Templates(currency string) (*template.Template, error) {
	funcs := template.FuncMap{
		"money": func(amount int64) string {
			return domain.FormatMoney(amount, currency)
		},
		"moneyIn": domain.FormatMoney,
		"grindLabel": func(g domain.Grind) string {
			return g.Label()
		},
		"grinds": func() []domain.Grind {
			return domain.Grinds
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02 Jan 2006 15:04")
		},
	}
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}
