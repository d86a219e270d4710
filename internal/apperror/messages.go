package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// External service errors
	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",

	// System errors
	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	// Load-balancer taxonomy
	CodeUnsupportedNetwork:  "Network family has no status payload codec",
	CodeNoActiveNode:        "No active endpoint available for this kind",
	CodeAllNodesUnavailable: "All endpoints exhausted via failover",

	// External-collaborator codes (never raised by the core)
	CodeParameterMismatch: "Request parameters do not match the expected shape",
	CodeInsufficientFunds: "Account balance insufficient for the requested operation",
	CodeMissingSequence:   "Account sequence number could not be determined",
}
