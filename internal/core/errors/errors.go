package errors

const (
	HttpInternalError       = "internal_error"
	HttpModelNotFoundError  = "model_not_found"
	HttpRouteNotFoundError  = "route_not_found"
	HttpRateLimitedError    = "rate_limited"
	HttpDataSourceDownError = "datasource_unavailable"
)

// ErrorResponse is the JSON error body. Message is what the dashboard shows.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
