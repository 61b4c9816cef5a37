package model

// Snapshot is the persisted dashboard state for one user
type Snapshot struct {
	Charts         []ChartConfig `json:"charts"`
	FileName       string        `json:"fileName"`
	DashboardTitle string        `json:"dashboardTitle"`
}
