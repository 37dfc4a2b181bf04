// Package models содержит закрытый набор тарифных планов портала.
package models

import "fmt"

// Plan — тарифный план подписки, выбранный пользователем в форме покупки.
type Plan struct {
	Code   string // Код плана из формы: "1".."4" или "lifetime"
	Months int    // Количество месяцев, 0 для бессрочного плана
}

// PlanLifetime — код бессрочного плана.
const PlanLifetime = "lifetime"

// plans — закрытый набор допустимых планов. Неизвестные коды отклоняются
// явной ошибкой валидации, молчаливого приведения к нулю месяцев нет.
var plans = map[string]Plan{
	"1":          {Code: "1", Months: 1},
	"2":          {Code: "2", Months: 2},
	"3":          {Code: "3", Months: 3},
	"4":          {Code: "4", Months: 4},
	PlanLifetime: {Code: PlanLifetime},
}

// ErrUnknownPlan возвращается при попытке купить план с неизвестным кодом.
var ErrUnknownPlan = fmt.Errorf("unknown subscription plan")

// ParsePlan проверяет код плана и возвращает его описание.
func ParsePlan(code string) (Plan, error) {
	plan, ok := plans[code]
	if !ok {
		return Plan{}, fmt.Errorf("%w: %q", ErrUnknownPlan, code)
	}
	return plan, nil
}

// IsLifetime сообщает, является ли план бессрочным.
func (p Plan) IsLifetime() bool {
	return p.Code == PlanLifetime
}
