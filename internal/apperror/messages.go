package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// External service errors
	CodeServiceTimeout:     "Service request timeout",
	CodeServiceUnavailable: "Service temporarily unavailable",

	// System errors
	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	// Exchange catalog errors
	CodeInvalidDescriptor: "Invalid exchange descriptor",
	CodeExchangeNotFound:  "Exchange not found",

	// Request building errors
	CodeUnsupportedCurrency: "Currency is not supported by the exchange",
	CodeUnsupportedPair:     "Pair is not quoted by the exchange",

	// Fetch errors
	CodeTransportError: "Failed to fetch quote from exchange",

	// Response parsing errors
	CodeExtractionFailure: "Failed to extract price from exchange response",

	// Selection errors
	CodeNoCandidate: "No exchange returned a usable quote",

	// Circuit breaker errors
	CodeCircuitOpen: "Circuit breaker is open",
}
