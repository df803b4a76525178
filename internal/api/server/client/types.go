package client

// RoastRequest is the body of POST /api/roast.
type RoastRequest struct {
	UserInput string `json:"userInput"`
}

// RoastResponse is returned on success.
type RoastResponse struct {
	Success bool   `json:"success"`
	Roast   string `json:"roast"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	PortWorking   bool   `json:"port_working"`
	ServerWorking bool   `json:"server_working"`
	Provider      string `json:"provider"`
	Model         string `json:"model"`
}
