package engine

import "fmt"

// TimeSlots генерирует получасовые слоты между startHour и endHour.
//
// Например, TimeSlots(8, 10) → ["08:00", "08:30", "09:00", "09:30"].
func TimeSlots(startHour, endHour int) []string {
	slots := make([]string, 0, (endHour-startHour)*2)
	for hour := startHour; hour < endHour; hour++ {
		slots = append(slots, fmt.Sprintf("%02d:00", hour))
		slots = append(slots, fmt.Sprintf("%02d:30", hour))
	}
	return slots
}
