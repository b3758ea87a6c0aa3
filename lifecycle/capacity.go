package lifecycle

// CapacityInfo — снимок заполненности турнира. Total/Available равны nil,
// когда лимита нет.
type CapacityInfo struct {
	Total     *int `json:"total"`
	Taken     int  `json:"taken"`
	Available *int `json:"available"`
	IsFull    bool `json:"is_full"`
	HasLimit  bool `json:"has_limit"`
}

// Capacity вычисляет снимок из лимита и числа confirmed-заявок.
// Лимит <= 0 означает безлимитный турнир. Отрицательный счётчик — ошибка
// вызывающего кода, прижимается к нулю, чтобы снимок оставался корректным.
func Capacity(capacityLimit, confirmedCount int) CapacityInfo {
	if confirmedCount < 0 {
		confirmedCount = 0
	}

	info := CapacityInfo{
		Taken:    confirmedCount,
		HasLimit: capacityLimit > 0,
	}
	if !info.HasLimit {
		return info
	}

	total := capacityLimit
	available := capacityLimit - confirmedCount
	if available < 0 {
		available = 0
	}
	info.Total = &total
	info.Available = &available
	info.IsFull = confirmedCount >= capacityLimit
	return info
}
