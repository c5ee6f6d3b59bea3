package model

type ErrorResponse struct {
	Error string `json:"detail"`
	Kind  string `json:"kind,omitempty"`
}

type HealthResponse struct {
	Ok      bool   `json:"ok"`
	Service string `json:"service"`
	Formats string `json:"formats"`
}
