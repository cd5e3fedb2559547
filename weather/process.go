package weather

import (
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// CurrentView is the reshaped current-conditions block.
type CurrentView struct {
	Temp              int     `json:"temp"`
	Description       string  `json:"description"`
	MinTemp           int     `json:"minTemp"`
	MaxTemp           int     `json:"maxTemp"`
	Humidity          int     `json:"humidity"`
	FeelsLike         int     `json:"feels_like"`
	ProbPrecipitation float64 `json:"prob_precipitation"`
	Icon              string  `json:"icon"`
}

// HourlyView is one hour of the 24-hour forecast.
type HourlyView struct {
	Hours int    `json:"hours"`
	Temp  int    `json:"temp"`
	Icon  string `json:"icon"`
}

// DailyView is one day of the 7-day forecast.
type DailyView struct {
	Day  string `json:"day"`
	Temp int    `json:"temp"`
	Icon string `json:"icon"`
}

var dayHeaders = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// LocalTime converts a UTC instant to the location's local time using the
// provider's timezone offset.
func LocalTime(now time.Time, data *OneCall) time.Time {
	return now.UTC().Add(time.Duration(data.TimezoneOffset) * time.Second)
}

// ProcessCurrent reshapes the current conditions.
func ProcessCurrent(data *OneCall) CurrentView {
	view := CurrentView{
		Temp:      round(data.Current.Temp),
		Humidity:  round(data.Current.Humidity),
		FeelsLike: round(data.Current.FeelsLike),
	}
	if len(data.Current.Weather) > 0 {
		view.Description = titleCase(data.Current.Weather[0].Description)
		view.Icon = data.Current.Weather[0].Icon
	}
	if len(data.Daily) > 0 {
		view.MinTemp = round(data.Daily[0].Temp.Min)
		view.MaxTemp = round(data.Daily[0].Temp.Max)
	}
	if len(data.Hourly) > 0 {
		view.ProbPrecipitation = data.Hourly[0].Pop
	}
	return view
}

// ProcessHourly reshapes the next 24 hours, cycling the local hour of day.
func ProcessHourly(data *OneCall, local time.Time) []HourlyView {
	hours := make([]HourlyView, 0, 24)
	hourValue := local.Hour()

	for i := 0; i < 24 && i < len(data.Hourly); i++ {
		entry := HourlyView{
			Hours: hourValue,
			Temp:  round(data.Hourly[i].Temp),
		}
		if len(data.Hourly[i].Weather) > 0 {
			entry.Icon = data.Hourly[i].Weather[0].Icon
		}
		hours = append(hours, entry)
		hourValue = (hourValue + 1) % 24
	}
	return hours
}

// ProcessDaily reshapes the next 7 days, cycling the local weekday header.
func ProcessDaily(data *OneCall, local time.Time) []DailyView {
	days := make([]DailyView, 0, 7)
	dayIndex := int(local.Weekday())

	for i := 0; i < 7 && i < len(data.Daily); i++ {
		entry := DailyView{
			Day:  dayHeaders[dayIndex],
			Temp: round(data.Daily[i].Temp.Day),
		}
		if len(data.Daily[i].Weather) > 0 {
			entry.Icon = data.Daily[i].Weather[0].Icon
		}
		days = append(days, entry)
		dayIndex = (dayIndex + 1) % 7
	}
	return days
}

func round(f float64) int {
	return int(math.Round(f))
}

// titleCase uppercases the first rune of each word in a provider description
// ("clear sky" -> "Clear Sky"). Localized descriptions can start with a
// multi-byte rune.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		r, size := utf8.DecodeRuneInString(word)
		words[i] = string(unicode.ToUpper(r)) + word[size:]
	}
	return strings.Join(words, " ")
}
