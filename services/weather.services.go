package services

import (
	"strconv"
	"time"

	"chatterbug_server/errors"
	"chatterbug_server/helpers"
	"chatterbug_server/weather"

	"github.com/gofiber/fiber/v2"
)

// GetWeather proxies the forecast provider and reshapes the response into
// current conditions, a 24-hour forecast, and a 7-day forecast.
func (s *Service) GetWeather(c *fiber.Ctx) error {

	lat := c.Query("lat")
	lng := c.Query("lng")
	if !helpers.IsStringProvided(lat) || !helpers.IsStringProvided(lng) {
		return errors.HandleBadRequestError(c, "Missing required information")
	}

	latValue, latErr := strconv.ParseFloat(lat, 64)
	lngValue, lngErr := strconv.ParseFloat(lng, 64)
	if latErr != nil || lngErr != nil {
		return errors.HandleBadRequestError(c, "Invalid parameters")
	}

	data, err := s.Weather.Forecast(c.Context(), latValue, lngValue)
	if err != nil {
		return errors.HandleUpstreamError(c, "Weather API request failed", err)
	}

	local := weather.LocalTime(time.Now(), data)

	return c.JSON(fiber.Map{
		"success":        true,
		"currentWeather": weather.ProcessCurrent(data),
		"hourlyData":     weather.ProcessHourly(data, local),
		"dailyData":      weather.ProcessDaily(data, local),
	})
}
