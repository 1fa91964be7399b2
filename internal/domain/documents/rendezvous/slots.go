package rendezvous

import (
	"time"
)

// OpeningHours bounds the daily booking grid.
type OpeningHours struct {
	// OpenHour and CloseHour are hours of day, e.g. 9 and 18
	OpenHour  int
	CloseHour int

	// SlotMinutes is the grid step, e.g. 30
	SlotMinutes int
}

// DefaultOpeningHours is the clinic schedule: 09:00 to 18:00 in 30-minute steps.
func DefaultOpeningHours() OpeningHours {
	return OpeningHours{OpenHour: 9, CloseHour: 18, SlotMinutes: 30}
}

// Slot is one bookable interval of the daily grid.
type Slot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
}

// SlotsForDate builds the fixed-interval grid for the given day and marks
// slots taken by active appointments. A slot is unavailable when any
// non-cancelled appointment overlaps it. The day is interpreted in the
// location of the date argument.
func SlotsForDate(date time.Time, hours OpeningHours, booked []RendezVous) []Slot {
	year, month, day := date.Date()
	loc := date.Location()

	open := time.Date(year, month, day, hours.OpenHour, 0, 0, 0, loc)
	close := time.Date(year, month, day, hours.CloseHour, 0, 0, 0, loc)
	step := time.Duration(hours.SlotMinutes) * time.Minute
	if step <= 0 || !open.Before(close) {
		return nil
	}

	var slots []Slot
	for start := open; start.Add(step).Compare(close) <= 0; start = start.Add(step) {
		end := start.Add(step)
		slots = append(slots, Slot{
			Start:     start,
			End:       end,
			Available: !isBooked(start, end, booked),
		})
	}
	return slots
}

// AvailableSlots filters the grid down to free slots.
func AvailableSlots(date time.Time, hours OpeningHours, booked []RendezVous) []Slot {
	var free []Slot
	for _, s := range SlotsForDate(date, hours, booked) {
		if s.Available {
			free = append(free, s)
		}
	}
	return free
}

func isBooked(start, end time.Time, booked []RendezVous) bool {
	for i := range booked {
		r := &booked[i]
		if !r.IsActive() {
			continue
		}
		if r.Overlaps(start, end) {
			return true
		}
	}
	return false
}
