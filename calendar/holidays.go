package calendar

import (
	"fmt"
	"time"
)

const (
	minYear = 1583 // first full Gregorian year
	maxYear = 9999
)

type monthDay struct {
	month time.Month
	day   int
}

// Fixed national holidays observed by both calendars.
var nationalHolidays = []monthDay{
	{time.January, 1},   // Confraternização Universal
	{time.April, 21},    // Tiradentes
	{time.May, 1},       // Dia do Trabalho
	{time.September, 7}, // Independência
	{time.October, 12},  // Nossa Senhora Aparecida
	{time.November, 2},  // Finados
	{time.November, 15}, // Proclamação da República
	{time.December, 25}, // Natal
}

// Moving holidays as day-of-year offsets from Easter Monday.
var easterOffsets = []int{
	-49, // Carnival Monday
	-48, // Carnival Tuesday
	-3,  // Good Friday
	59,  // Corpus Christi
}

func isHoliday(cal CalendarID, t time.Time) bool {
	year, month, day := t.Date()
	if year < minYear || year > maxYear {
		panic(fmt.Sprintf("calendar: year %d outside supported range [%d, %d]", year, minYear, maxYear))
	}

	for _, h := range nationalHolidays {
		if month == h.month && day == h.day {
			return true
		}
	}
	if month == time.November && day == 20 && observesBlackAwareness(cal, year) {
		return true
	}

	anchor := easterSunday(year).AddDate(0, 0, 1).YearDay()
	doy := t.YearDay()
	for _, off := range easterOffsets {
		if doy == anchor+off {
			return true
		}
	}

	if cal == Exchange {
		return isExchangeOnlyHoliday(t)
	}
	return false
}

// observesBlackAwareness reports whether Nov 20 is closed. ANBIMA follows the
// national law from 2024; B3 closed it as a São Paulo holiday except in 2022-2023.
func observesBlackAwareness(cal CalendarID, year int) bool {
	switch cal {
	case Settlement:
		return year >= 2024
	case Exchange:
		return year < 2022 || year > 2023
	default:
		return false
	}
}

func isExchangeOnlyHoliday(t time.Time) bool {
	year, month, day := t.Date()
	switch {
	case year <= 2021 && month == time.January && day == 25:
		return true // Aniversário de São Paulo
	case year <= 2021 && month == time.July && day == 9:
		return true // Revolução Constitucionalista
	case month == time.December && day == 24:
		return true
	case month == time.December && (day == 31 || (day >= 29 && t.Weekday() == time.Friday)):
		return true // no trading on the last business day of the year
	}
	return false
}

// easterSunday uses the anonymous Gregorian (Meeus/Jones/Butcher) algorithm.
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// Holidays lists the weekday holidays of cal in year, in date order.
func Holidays(cal CalendarID, year int) []time.Time {
	var out []time.Time
	for d := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC); d.Year() == year; d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		if isHoliday(cal, d) {
			out = append(out, d)
		}
	}
	return out
}
