package domain

// ProgressInput holds the raw parameters received from the chat platform.
type ProgressInput struct {
	StartDateRaw string
	MonthsRaw    any
}

// ProgressResult is the medication progress computed for one request.
type ProgressResult struct {
	StartDate       string  `json:"startDate"`
	EndDate         string  `json:"endDate"`
	TotalDays       int     `json:"totalDays"`
	ElapsedDays     int     `json:"elapsedDays"`
	ProgressPercent float64 `json:"progressPercent"`
	RemainingDays   int     `json:"remainingDays"`
}
