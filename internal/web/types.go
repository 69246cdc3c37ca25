package web

// noteInput is the request body for both the council and dev team routes.
type noteInput struct {
	Content string `json:"content"`
}

type councilResponse struct {
	Status     string `json:"status"`
	Conclusion string `json:"conclusion"`
}

type devTeamResponse struct {
	Status string `json:"status"`
	Result string `json:"result"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

type infoResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

type healthResponse struct {
	Status string `json:"status"`
}
