package main

type ErrorResponse struct {
	Error string `json:"error"`
}

type APIKeyResponse struct {
	Key string `json:"key"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
