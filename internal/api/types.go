package api

import "encoding/json"

// Data is one day of the Al Adhan calendar: timings, date info and metadata.
// It is decoded from untrusted JSON and never mutated afterwards.
type Data struct {
	Timings Timings  `json:"timings"`
	Date    DateInfo `json:"date"`
	Meta    Meta     `json:"meta"`
}

// Timings contains the prayer times used by the calendar as HH:MM strings.
// The API appends a timezone annotation like " (+06)" which callers strip.
type Timings struct {
	Imsak   string `json:"Imsak"`
	Fajr    string `json:"Fajr"`
	Sunrise string `json:"Sunrise"`
	Dhuhr   string `json:"Dhuhr"`
	Asr     string `json:"Asr"`
	Maghrib string `json:"Maghrib"`
	Isha    string `json:"Isha"`
}

// DateInfo contains date representations.
type DateInfo struct {
	Readable  string        `json:"readable"`
	Timestamp string        `json:"timestamp"`
	Hijri     HijriDate     `json:"hijri"`
	Gregorian GregorianDate `json:"gregorian"`
}

// HijriDate represents the Hijri (Islamic) date from the API response.
type HijriDate struct {
	Date        string           `json:"date"` // e.g. "01-09-1447"
	Day         string           `json:"day"`
	Month       HijriMonth       `json:"month"`
	Year        string           `json:"year"`
	Designation HijriDesignation `json:"designation"`
}

// HijriMonth represents the month in the Hijri calendar.
type HijriMonth struct {
	Number int    `json:"number"`
	En     string `json:"en"` // English name, e.g. "Ramaḍān"
	Ar     string `json:"ar"`
}

// HijriDesignation contains the calendar designation labels.
type HijriDesignation struct {
	Abbreviated string `json:"abbreviated"` // "AH"
	Expanded    string `json:"expanded"`
}

// Format returns the Hijri date as "DD MonthName YYYY AH".
func (h HijriDate) Format() string {
	if h.Day == "" || h.Month.En == "" || h.Year == "" {
		return ""
	}
	abbr := h.Designation.Abbreviated
	if abbr == "" {
		abbr = "AH"
	}
	return h.Day + " " + h.Month.En + " " + h.Year + " " + abbr
}

// GregorianDate represents the Gregorian date from the API response.
type GregorianDate struct {
	Date    string         `json:"date"` // "19-02-2026"; some mirrors send "2026-02-19"
	Day     string         `json:"day"`
	Weekday GregorianDay   `json:"weekday"`
	Month   GregorianMonth `json:"month"`
	Year    string         `json:"year"`
}

// GregorianDay contains the weekday name.
type GregorianDay struct {
	En string `json:"en"`
}

// GregorianMonth contains the month details.
type GregorianMonth struct {
	Number int    `json:"number"`
	En     string `json:"en"`
}

// Meta contains request metadata returned by the API.
type Meta struct {
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Timezone  string     `json:"timezone"`
	Method    MethodInfo `json:"method"`
	School    string     `json:"school"`
}

// MethodInfo identifies the calculation method used.
type MethodInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CalendarResponse represents the Al Adhan calendar API response.
// The calendar endpoint returns an array of daily data objects for a whole month.
type CalendarResponse struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   []Data `json:"data"`
}

// rawCalendarResponse keeps data undecoded so its shape can be checked
// before it is trusted.
type rawCalendarResponse struct {
	Code   int             `json:"code"`
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// CityQuery selects a city calendar and the calculation parameters passed
// through to the API unchanged. Negative numeric values are not sent.
type CityQuery struct {
	City               string
	Country            string
	Method             int
	School             int
	LatitudeAdjustment int
	Timezone           string
}
