// Package catalog holds the built-in data set used when nothing has been saved yet.
package catalog

import (
	_ "embed"
	"encoding/json"

	"krishibondhu/entities"
)

//go:embed defaults.json
var defaultsJSON []byte

type DataSet struct {
	Crops   []entities.Crop            `json:"crops"`
	News    []entities.NewsItem        `json:"news"`
	Market  []entities.MarketItem      `json:"market"`
	Ads     []entities.AdItem          `json:"ads"`
	Weather []entities.WeatherForecast `json:"weather"`
}

// Defaults decodes the embedded data set. Each call returns an independent copy.
func Defaults() DataSet {
	var ds DataSet
	if err := json.Unmarshal(defaultsJSON, &ds); err != nil {
		panic("catalog: embedded defaults.json is invalid: " + err.Error())
	}
	if ds.Ads == nil {
		ds.Ads = []entities.AdItem{}
	}
	return ds
}
