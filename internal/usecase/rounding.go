package usecase

import "math"

// roundTo rounds half away from zero to the given number of decimals
func roundTo(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

// roundHalfEven breaks ties toward the even digit, so 4.25 becomes 4.2
func roundHalfEven(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.RoundToEven(v*p) / p
}

func roundMoney(v float64) float64 {
	return roundTo(v, 2)
}

// ratingFromStats maps an approved-review mean to the stored movie rating
func ratingFromStats(avg float64, count int64) float64 {
	if count == 0 {
		return 0
	}
	return roundHalfEven(avg, 1)
}

// growthPercent is (current-previous)/previous*100, or 0 without a baseline
func growthPercent(current, previous int64) float64 {
	if previous == 0 {
		return 0
	}
	return roundHalfEven(float64(current-previous)/float64(previous)*100, 1)
}
