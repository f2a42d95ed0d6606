package model

// FieldMapping binds logical task fields to sheet column ids. An empty value
// means the field is not mapped.
type FieldMapping struct {
	Name            string `json:"name"`
	StartDate       string `json:"start_date"`
	FinishDate      string `json:"finish_date"`
	Resources       string `json:"resources"`
	ActualEffort    string `json:"actual_effort"`
	ScheduledEffort string `json:"scheduled_effort"`
	RemainingEffort string `json:"remaining_effort"`
	PercentComplete string `json:"percent_complete"`
}
