// Package expiry реализует календарную арифметику для дат окончания подписки.
package expiry

import (
	"time"
)

// Date считает дату окончания подписки: start плюс заданное число
// календарных месяцев. Используется именно календарный сдвиг, а не
// фиксированное число дней: месяц, купленный 15 января, действует до 15 февраля.
// Время суток отбрасывается, дата нормализуется к полуночи UTC.
func Date(start time.Time, months int) time.Time {
	y, m, d := start.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, months, 0)
}
