package domain

import "time"

type StatsWindow string

const (
	StatsWindowAllTime     StatsWindow = "all"
	StatsWindowLast24Hours StatsWindow = "24h"
)

func ParseStatsWindow(value string) (StatsWindow, error) {
	switch StatsWindow(value) {
	case "", StatsWindowAllTime:
		return StatsWindowAllTime, nil
	case StatsWindowLast24Hours:
		return StatsWindowLast24Hours, nil
	}
	return "", ErrUnknownStatsWindow
}

type PriceStats struct {
	Window       StatsWindow
	Count        int
	Mean         float64
	Min          float64
	Max          float64
	First        float64
	Last         float64
	VariationPct float64
	From         time.Time
	To           time.Time
}
