package weather

import (
	"fmt"
	"math"
)

// IconURLPattern is the OpenWeatherMap icon CDN pattern; %s is the icon id.
const IconURLPattern = "https://openweathermap.org/img/wn/%s@2x.png"

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Report is the normalized current weather for one lookup. It is what
// the chat surface renders as a weather card.
type Report struct {
	City         string  `json:"city"`
	Country      string  `json:"country"`
	TemperatureC int     `json:"temperature"`
	FeelsLikeC   int     `json:"feelsLike"`
	Description  string  `json:"description"`
	HumidityPct  int     `json:"humidity"`
	WindSpeedMps float64 `json:"windSpeed"` // provider precision, never rounded
	IconID       string  `json:"icon"`
	IconURL      string  `json:"iconUrl,omitempty"`
}

// IconURLFor builds the CDN image URL for an icon id.
func IconURLFor(iconID string) string {
	if iconID == "" {
		return ""
	}
	return fmt.Sprintf(IconURLPattern, iconID)
}

// RoundDegrees rounds half up towards positive infinity, so 20.5 becomes 21
// and -2.5 becomes -2.
func RoundDegrees(c float64) int {
	return int(math.Floor(c + 0.5))
}
