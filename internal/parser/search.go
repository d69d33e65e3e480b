package parser

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// DateLayout is the date format used in search URLs and API payloads.
const DateLayout = "2006-01-02"

// Stay defaults: check in a week from now, stay two nights.
const (
	DefaultLeadTime = 7 * 24 * time.Hour
	DefaultStay     = 2 * 24 * time.Hour
)

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ResolveStay fills in whichever of checkIn and checkOut is zero.
func ResolveStay(now, checkIn, checkOut time.Time) (time.Time, time.Time) {
	if checkIn.IsZero() {
		checkIn = now.Add(DefaultLeadTime)
	}
	if checkOut.IsZero() {
		checkOut = checkIn.Add(DefaultStay)
	}
	return checkIn, checkOut
}

// BuildSearchURL constructs the results page URL for a city search with one
// room and no children.
func BuildSearchURL(baseURL, city string, checkIn, checkOut time.Time, adults int) string {
	return fmt.Sprintf("%s/searchresults.html?ss=%s&checkin=%s&checkout=%s&group_adults=%d&no_rooms=1&group_children=0",
		strings.TrimRight(baseURL, "/"),
		url.QueryEscape(city),
		FormatDate(checkIn),
		FormatDate(checkOut),
		adults,
	)
}
