package watch

import "strings"

// RepeatPeriod tells how often a reminder fires.
type RepeatPeriod string

const (
	PeriodNever   RepeatPeriod = "NEVER"
	PeriodDaily   RepeatPeriod = "DAILY"
	PeriodWeekly  RepeatPeriod = "WEEKLY"
	PeriodMonthly RepeatPeriod = "MONTHLY"
	PeriodYearly  RepeatPeriod = "YEARLY"
)

// ReminderDate is a calendar date carried in a reminder record. Year is the
// full four-digit year; on the wire only the last two digits travel.
type ReminderDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// Reminder is one of the watch's five scheduled reminders. Title is limited
// to 18 bytes of ASCII on the wire.
type Reminder struct {
	Title      string       `json:"title"`
	Enabled    bool         `json:"enabled"`
	Period     RepeatPeriod `json:"period"`
	Start      ReminderDate `json:"startDate"`
	End        ReminderDate `json:"endDate"`
	DaysOfWeek []string     `json:"daysOfWeek,omitempty"`
}

const (
	reminderTitleSize = 18
	reminderTimeSize  = 9
	reminderEndMarker = 0xFF

	periodEnabledMask = 0x01
	periodWeeklyMask  = 0x04
	periodYearlyMask  = 0x08
	periodMonthlyMask = 0x10
)

// dayMasks indexes the detail-byte weekday bits, Sunday first.
var dayMasks = []struct {
	name string
	mask byte
}{
	{"SUNDAY", 0x01},
	{"MONDAY", 0x02},
	{"TUESDAY", 0x04},
	{"WEDNESDAY", 0x08},
	{"THURSDAY", 0x10},
	{"FRIDAY", 0x20},
	{"SATURDAY", 0x40},
}

// EncodeReminderTitle builds the title record for slot (1-based). The title
// is truncated to 18 bytes and space-padded; the watch renders the padding
// as blanks rather than garbage.
func EncodeReminderTitle(slot int, r Reminder) []byte {
	rec := make([]byte, 2+reminderTitleSize)
	rec[0] = byte(CodeReminderTitle)
	rec[1] = byte(slot)
	title := r.Title
	if len(title) > reminderTitleSize {
		title = title[:reminderTitleSize]
	}
	copy(rec[2:], title)
	for i := 2 + len(title); i < len(rec); i++ {
		rec[i] = ' '
	}
	return rec
}

// DecodeReminderTitle decodes a title reply. ok is false for malformed
// frames and for the 0xFF end-of-reminders marker the watch sends after the
// last populated slot.
func DecodeReminderTitle(frame []byte) (slot int, title string, ok bool) {
	if len(frame) < 3 || Code(frame[0]) != CodeReminderTitle {
		return 0, "", false
	}
	if frame[2] == reminderEndMarker {
		return int(frame[1]), "", false
	}
	raw := frame[2:]
	if len(raw) > reminderTitleSize {
		raw = raw[:reminderTitleSize]
	}
	var b strings.Builder
	for _, c := range raw {
		if c != 0 {
			b.WriteByte(c)
		}
	}
	return int(frame[1]), strings.TrimRight(b.String(), " "), true
}

// EncodeReminderTime builds the 11-byte time record for slot (1-based):
// a period byte followed by start date, end date and a weekday bitmask.
func EncodeReminderTime(slot int, r Reminder) []byte {
	rec := make([]byte, 2+reminderTimeSize)
	rec[0] = byte(CodeReminderTime)
	rec[1] = byte(slot)

	var period byte
	if r.Enabled {
		period |= periodEnabledMask
	}
	switch r.Period {
	case PeriodWeekly:
		period |= periodWeeklyMask
	case PeriodMonthly:
		period |= periodMonthlyMask
	case PeriodYearly:
		period |= periodYearlyMask
	}
	rec[2] = period

	detail := rec[3:]
	switch r.Period {
	case PeriodNever, PeriodDaily, PeriodMonthly, PeriodYearly:
		putReminderDate(detail[0:3], r.Start)
		putReminderDate(detail[3:6], r.End)
	case PeriodWeekly:
		// Weekly reminders carry no dates; the watch wants 1s in the
		// date slots and the weekday bitmask in the last byte.
		for i := 0; i < 6; i++ {
			detail[i] = 1
		}
		for _, d := range dayMasks {
			if hasDay(r.DaysOfWeek, d.name) {
				detail[6] |= d.mask
			}
		}
	default:
		// Unknown period: leave the detail zeroed rather than guess.
	}
	return rec
}

// DecodeReminderTime decodes a time reply. ok is false for malformed frames
// and for the 0xFF end-of-reminders marker.
func DecodeReminderTime(frame []byte) (slot int, r Reminder, ok bool) {
	if len(frame) < 2+reminderTimeSize || Code(frame[0]) != CodeReminderTime {
		return 0, Reminder{}, false
	}
	if frame[3] == reminderEndMarker {
		return int(frame[1]), Reminder{}, false
	}

	period := frame[2]
	r.Enabled = period&periodEnabledMask != 0
	switch {
	case period&periodWeeklyMask != 0:
		r.Period = PeriodWeekly
	case period&periodMonthlyMask != 0:
		r.Period = PeriodMonthly
	case period&periodYearlyMask != 0:
		r.Period = PeriodYearly
	default:
		r.Period = PeriodNever
	}

	detail := frame[3:]
	if r.Period == PeriodWeekly {
		for _, d := range dayMasks {
			if detail[6]&d.mask != 0 {
				r.DaysOfWeek = append(r.DaysOfWeek, d.name)
			}
		}
	} else {
		r.Start = getReminderDate(detail[0:3])
		r.End = getReminderDate(detail[3:6])
	}
	return int(frame[1]), r, true
}

// putReminderDate packs a date as packed decimal: year mod 100, month, day.
func putReminderDate(dst []byte, d ReminderDate) {
	dst[0] = decToPacked(d.Year % 100)
	dst[1] = decToPacked(d.Month)
	dst[2] = decToPacked(d.Day)
}

func getReminderDate(src []byte) ReminderDate {
	return ReminderDate{
		Year:  2000 + packedToDec(src[0]),
		Month: packedToDec(src[1]),
		Day:   packedToDec(src[2]),
	}
}

func decToPacked(v int) byte {
	return byte((v/10)<<4 | v%10)
}

func packedToDec(b byte) int {
	return int(b>>4)*10 + int(b&0x0F)
}

func hasDay(days []string, name string) bool {
	for _, d := range days {
		if strings.EqualFold(d, name) {
			return true
		}
	}
	return false
}
