package lifecycle

import "time"

// TimeWindow — явное окно регистрации турнира. Обе границы опциональны.
// Инвертированное окно (open > close) считается непригодным: ядро не падает,
// а переходит на эвристику по статусу, как будто окна нет вовсе.
type TimeWindow struct {
	OpensAt  *time.Time
	ClosesAt *time.Time
}

// Usable сообщает, заданы ли обе границы и упорядочены ли они.
func (w TimeWindow) Usable() bool {
	if w.OpensAt == nil || w.ClosesAt == nil {
		return false
	}
	return !w.OpensAt.After(*w.ClosesAt)
}

// Before сообщает, что момент now ещё до открытия окна.
func (w TimeWindow) Before(now time.Time) bool {
	return w.Usable() && now.Before(*w.OpensAt)
}

// After сообщает, что момент now уже после закрытия окна.
func (w TimeWindow) After(now time.Time) bool {
	return w.Usable() && now.After(*w.ClosesAt)
}

// Contains сообщает, что момент now внутри окна.
func (w TimeWindow) Contains(now time.Time) bool {
	return w.Usable() && !w.Before(now) && !w.After(now)
}
