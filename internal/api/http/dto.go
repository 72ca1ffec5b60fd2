package http

// HealthResponse is the /healthz body.
type HealthResponse struct {
	Status string `json:"status"`
}

// StatsResponse is the /stats body.
type StatsResponse struct {
	Sessions      int            `json:"sessions"`
	Rooms         int            `json:"rooms"`
	RoomsByStatus map[string]int `json:"roomsByStatus"`
	Uptime        string         `json:"uptime"`
}
