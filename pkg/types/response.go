package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

// ListEnvelope carries a page of results plus the row count for the page.
type ListEnvelope struct {
	Results int `json:"results"`
	Data    any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
