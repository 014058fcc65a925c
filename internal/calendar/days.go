package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// DateLayout — формат календарной даты в API и ключах статистики.
const DateLayout = "2006-01-02"

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidTimeOfDay = errors.New("invalid time of day")
)

// DateOf отбрасывает время суток у t (в его собственной зоне) и возвращает
// календарную дату как полночь UTC. Все даты хранятся и сравниваются в таком виде.
func DateOf(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// Today — текущая календарная дата в зоне loc.
func Today(now time.Time, loc *time.Location) datatypes.Date {
	if loc != nil {
		now = now.In(loc)
	}
	return DateOf(now)
}

// TrailingDays возвращает n последовательных дат, заканчивая today, от старой к новой.
func TrailingDays(today datatypes.Date, n int) []datatypes.Date {
	if n <= 0 {
		return nil
	}
	end := time.Time(DateOf(time.Time(today)))
	days := make([]datatypes.Date, 0, n)
	for i := n - 1; i >= 0; i-- {
		days = append(days, datatypes.Date(end.AddDate(0, 0, -i)))
	}
	return days
}

// DateKey форматирует дату как YYYY-MM-DD.
func DateKey(d datatypes.Date) string {
	return time.Time(d).Format(DateLayout)
}

// ParseDate разбирает YYYY-MM-DD.
func ParseDate(s string) (datatypes.Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return datatypes.Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

// ParseTimeOfDay разбирает HH:MM или HH:MM:SS без часового пояса.
func ParseTimeOfDay(s string) (datatypes.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return datatypes.NewTime(t.Hour(), t.Minute(), t.Second(), 0), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
}

// FormatTimeOfDay форматирует время приёма как HH:MM, секунды — только если есть.
func FormatTimeOfDay(t datatypes.Time) string {
	d := time.Duration(t)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	sec := int(d % time.Minute / time.Second)
	if sec != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}
