package trend

// Status values reported for each region in the results table.
const (
	// StatusOK marks a region with a fitted trend and defined change metrics.
	StatusOK = "ok"
	// StatusInsufficientData marks a region observed in fewer than two
	// distinct years; no numeric trend exists for it.
	StatusInsufficientData = "insufficient data"
	// StatusUndefinedBase marks a region whose first observed area is zero,
	// leaving the percent change undefined. Slope and absolute change are
	// still reported.
	StatusUndefinedBase = "undefined base"
)

// RegionTrend holds the fitted linear trend and change statistics for one region.
type RegionTrend struct {
	Region       string `json:"region"`
	Observations int    `json:"observations"`

	// Observation window
	FirstYear int     `json:"first_year"`
	LastYear  int     `json:"last_year"`
	FirstArea float64 `json:"first_area_hectares"`
	LastArea  float64 `json:"last_area_hectares"`

	// Ordinary least squares fit of area over year
	Slope     float64 `json:"slope_hectares_per_year"`
	Intercept float64 `json:"intercept_hectares"`
	RSquared  float64 `json:"r_squared"`

	// Change between the first and last observed year
	AbsoluteChange float64 `json:"absolute_change_hectares"`
	PercentChange  float64 `json:"percent_change"`

	Status string `json:"status"`
}

// HasFit reports whether the region carries a fitted numeric trend.
func (rt RegionTrend) HasFit() bool {
	return rt.Status != StatusInsufficientData
}

// HasPercentChange reports whether the percent change is defined.
func (rt RegionTrend) HasPercentChange() bool {
	return rt.Status == StatusOK
}

// GlobalPoint is the total forest area across all regions for one year.
type GlobalPoint struct {
	Year         int     `json:"year"`
	TotalArea    float64 `json:"total_area_hectares"`
	YoYChangePct float64 `json:"yoy_change_percent"`
}
