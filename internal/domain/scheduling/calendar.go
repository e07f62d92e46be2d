package scheduling

import "time"

// Business hours are [08:00, 18:00): a booking at 18:00 sharp is outside them.
const (
	openingHour = 8
	closingHour = 18
)

// slotGrid is the fixed offer of bookable times on a working day. The midday
// gap is the clinic's lunch break.
var slotGrid = []string{
	"08:00", "09:00", "10:00", "11:00",
	"13:00", "14:00", "15:00", "16:00", "17:00",
}

// Calendar evaluates business-day rules in the clinic's timezone, regardless
// of the zone a timestamp arrives in.
type Calendar struct {
	loc *time.Location
}

func NewCalendar(loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.Local
	}
	return &Calendar{loc: loc}
}

// IsWorkingDay reports whether t falls on Monday through Friday.
func (c *Calendar) IsWorkingDay(t time.Time) bool {
	wd := t.In(c.loc).Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// IsWithinBusinessHours reports whether t's wall-clock time falls inside
// opening hours. Minutes count: 17:30 is inside, 18:00 is not.
func (c *Calendar) IsWithinBusinessHours(t time.Time) bool {
	h := t.In(c.loc).Hour()
	return h >= openingHour && h < closingHour
}

// AvailableSlots returns the slot grid for the given day, or nil when the day
// is not a working day. The result is a fresh copy the caller may filter.
func (c *Calendar) AvailableSlots(day time.Time) []string {
	if !c.IsWorkingDay(day) {
		return nil
	}
	slots := make([]string, len(slotGrid))
	copy(slots, slotGrid)
	return slots
}

// SlotKey formats t as its "HH:MM" slot label in the clinic timezone.
func (c *Calendar) SlotKey(t time.Time) string {
	return t.In(c.loc).Format("15:04")
}

// DayBounds returns the half-open range [start, end) covering the calendar
// day of t in the clinic timezone.
func (c *Calendar) DayBounds(t time.Time) (time.Time, time.Time) {
	local := t.In(c.loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.loc)
	return start, start.AddDate(0, 0, 1)
}
