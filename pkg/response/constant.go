package response

import "time"

const (
	MessageSuccess          = "Success"
	DefaultErrorMessage     = "Something went wrong"
	InternalServerErrorCode = 500

	// DateTimeFormat is written in UTC so clients in any zone read the same instant.
	DateTimeFormat = time.RFC3339
)
