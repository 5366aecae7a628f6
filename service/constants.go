package service

const (
	DaysPerMonth = 30   // months are approximated as fixed 30-day blocks
	MaxMonths    = 1200 // 100 años de tratamiento

	DateLayout = "2006-01-02"

	FieldStartDate = "startDate"
	FieldMonths    = "months"

	cacheKeyPrefix = "progress"
)

// placeholderPrefixes mark entity names the chat platform failed to resolve.
var placeholderPrefixes = []string{"sys.", "#{", "{{"}
