// Package web отвечает за HTML-страницы портала.
// Шаблоны вшиты в бинарник и парсятся один раз при старте.
package web

import (
	"embed"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/magabrotheeeer/subscription-portal/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// PlanOption — один тариф на странице покупки.
type PlanOption struct {
	Value    string
	Title    string
	Price    string
	Duration string
}

// PlanOptions возвращает тарифы в порядке отображения на странице.
func PlanOptions() []PlanOption {
	return []PlanOption{
		{Value: "1", Title: "1 Month", Price: "$10", Duration: "30 days access"},
		{Value: "2", Title: "2 Months", Price: "$20", Duration: "60 days access"},
		{Value: "3", Title: "3 Months", Price: "$30", Duration: "90 days access"},
		{Value: "4", Title: "4 Months", Price: "$40", Duration: "120 days access"},
		{Value: "lifetime", Title: "Lifetime", Price: "$50", Duration: "Never expires"},
	}
}

// RegisterView — данные страницы регистрации.
type RegisterView struct {
	Errors   []string
	Success  string
	Username string
}

// AccountView — данные страницы входа и кабинета.
// При LoggedIn=false рендерится форма входа, иначе кабинет
// с покупкой подписки и загрузкой клиента.
type AccountView struct {
	Errors   []string
	Success  string
	Username string
	LoggedIn bool
	Active   bool
	Status   string
	Expiry   string
	Plans    []PlanOption
}

// NewAccountView собирает кабинет пользователя. Статус подписки
// вычисляется на момент запроса, просроченная подписка показывается
// как неактивная.
func NewAccountView(user *models.User, now time.Time) AccountView {
	expiryText := "Never (Lifetime)"
	if user.Subscription.Expiry != nil {
		expiryText = user.Subscription.Expiry.Format("January 2, 2006")
	}
	return AccountView{
		Username: user.Username,
		LoggedIn: true,
		Active:   user.Subscription.Entitled(now),
		Status:   strings.ToUpper(user.Subscription.EffectiveStatus(now)),
		Expiry:   expiryText,
		Plans:    PlanOptions(),
	}
}

// RenderRegister пишет страницу регистрации в ответ.
func RenderRegister(w http.ResponseWriter, view RegisterView) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return templates.ExecuteTemplate(w, "register.html", view)
}

// RenderAccount пишет страницу входа либо кабинета в ответ.
func RenderAccount(w http.ResponseWriter, view AccountView) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return templates.ExecuteTemplate(w, "account.html", view)
}
