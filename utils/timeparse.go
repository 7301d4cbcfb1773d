package utils

import (
	"fmt"
	"strings"
	"time"
)

// ParseClock memvalidasi jam format 24 jam "HH:mm" dan mengembalikan jam + menit.
func ParseClock(s string) (int, int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:mm", s)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, 0, fmt.Errorf("invalid time %q, expected HH:mm", s)
		}
	}
	hour := int(s[0]-'0')*10 + int(s[1]-'0')
	minute := int(s[3]-'0')*10 + int(s[4]-'0')
	if hour > 23 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid time %q, hour must be 0-23 and minute 0-59", s)
	}
	return hour, minute, nil
}

// ClockMinutes mengubah "HH:mm" menjadi menit sejak tengah malam.
func ClockMinutes(s string) (int, error) {
	hour, minute, err := ParseClock(s)
	if err != nil {
		return 0, err
	}
	return hour*60 + minute, nil
}

// ParseDateString memvalidasi tanggal "YYYY-MM-DD". Tanggal dibandingkan
// sebagai nilai kalender, bukan instant, jadi tidak ada konversi timezone.
func ParseDateString(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

// ParseWindow memecah "HH:mm-HH:mm" menjadi menit awal dan akhir.
func ParseWindow(s string) (int, int, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid window %q, expected HH:mm-HH:mm", s)
	}
	start, err := ClockMinutes(parts[0])
	if err != nil {
		return 0, 0, err
	}
	end, err := ClockMinutes(parts[1])
	if err != nil {
		return 0, 0, err
	}
	if start >= end {
		return 0, 0, fmt.Errorf("invalid window %q, start must be before end", s)
	}
	return start, end, nil
}

// IntervalsOverlap membandingkan dua interval half-open [start, end).
// Endpoint yang bersentuhan (a.end == b.start) BUKAN overlap.
func IntervalsOverlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// MinutesBetween menghitung selisih menit t1 -> t2, bertanda.
func MinutesBetween(t1, t2 time.Time) int {
	return int(t2.Sub(t1) / time.Minute)
}

// SlotInstant menggabungkan tanggal "YYYY-MM-DD" dan jam "HH:mm" menjadi
// satu time.Time (UTC-naive) untuk aturan cap dan spacing.
func SlotInstant(date, clock string) (time.Time, error) {
	d, err := ParseDateString(date)
	if err != nil {
		return time.Time{}, err
	}
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return d.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute), nil
}
