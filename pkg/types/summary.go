package types

// DailySummary aggregates the day's cost and device figures shown on the
// dashboard.
type DailySummary struct {
	EstimatedCost    float64 `json:"estimatedCost"`
	GridExportIncome float64 `json:"gridExportIncome"`
	CO2Avoided       float64 `json:"co2Avoided"`
	BatterySOC       float64 `json:"batterySoc"`
	EVSOC            float64 `json:"evSoc"`
	UserPercentile   float64 `json:"userPercentile"`
}
