package constvars

const (
	URLParamSessionID = "session_id"
)

const (
	URLQueryParamLimit  = "limit"
	URLQueryParamOffset = "offset"
)

const (
	FormFieldReceiptFile = "receipt"
)
