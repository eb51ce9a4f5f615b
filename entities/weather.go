package entities

type WeatherForecast struct {
	Day       string  `json:"day"`
	Temp      float64 `json:"temp"`
	Condition string  `json:"condition"`
	Icon      string  `json:"icon"`
}
