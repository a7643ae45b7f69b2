// Package timefmt renders forum timestamps as short Chinese relative times.
package timefmt

import (
	"fmt"
	"regexp"
	"time"

	"github.com/kevinluo6191/XDNMB/internal/pkg/apperr"
)

// Zone is the fixed UTC+08:00 zone the forum reports times in.
var Zone = time.FixedZone("UTC+08:00", 8*60*60)

var weekdayToken = regexp.MustCompile(`\((.+?)\)`)

var dayWords = map[int]string{
	-2: "后天",
	-1: "明天",
	1:  "昨天",
	2:  "前天",
}

// Formatter formats forum timestamps relative to Now.
type Formatter struct {
	Now func() time.Time
}

// New returns a Formatter on the wall clock.
func New() *Formatter {
	return &Formatter{Now: time.Now}
}

// Parse reads "2022-10-29(六)12:00:00" in the forum zone.
func Parse(originalTime string) (time.Time, error) {
	iso := weekdayToken.ReplaceAllString(originalTime, "T")
	t, err := time.ParseInLocation("2006-01-02T15:04:05", iso, Zone)
	if err != nil {
		return time.Time{}, apperr.ParseError(err)
	}
	return t, nil
}

// Format renders originalTime relative to f.Now(). inThread adds the clock
// time for older posts, and replaces "N小时前" with the clock time.
func (f *Formatter) Format(originalTime string, inThread bool) (string, error) {
	t, err := Parse(originalTime)
	if err != nil {
		return "", err
	}
	now := f.Now().In(Zone)

	months, days := period(noon(t), noon(now))
	elapsed := now.Sub(t)
	sameDay := months == 0 && days == 0

	var result string
	switch {
	case sameDay:
		switch {
		case elapsed < time.Minute:
			result = fmt.Sprintf("%d秒前", int64(elapsed/time.Second))
		case elapsed < time.Hour:
			result = fmt.Sprintf("%d分钟前", int64(elapsed/time.Minute))
		default:
			result = fmt.Sprintf("%d小时前", int64(elapsed/time.Hour))
		}
	case months == 0:
		if word, ok := dayWords[days]; ok {
			result = word
		} else {
			result = monthDay(t)
		}
	case t.Year() == now.Year():
		result = monthDay(t)
	default:
		result = fmt.Sprintf("%d年%s", t.Year(), monthDay(t))
	}

	if inThread {
		clock := fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
		if days >= 1 {
			result = result + " " + clock
		} else if sameDay && elapsed >= time.Hour {
			result = clock
		}
	}

	return result, nil
}

func monthDay(t time.Time) string {
	return fmt.Sprintf("%d月%d日", int(t.Month()), t.Day())
}

func noon(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, Zone)
}

// period splits the calendar distance from a to b into whole months and the
// remaining days. Both parts truncate toward zero, so a future a gives
// negative values.
func period(a, b time.Time) (months, days int) {
	packedA := prolepticMonth(a)*32 + a.Day()
	packedB := prolepticMonth(b)*32 + b.Day()
	months = (packedB - packedA) / 32

	shifted := addMonthsClamped(a, months)
	days = int(b.Sub(shifted).Hours() / 24)
	return months, days
}

func prolepticMonth(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}

// addMonthsClamped moves t by n months, clamping the day to the target
// month's length (Jan 31 + 1 month = Feb 28/29).
func addMonthsClamped(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), 0, t.Location())
	last := first.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), 0, t.Location())
}
