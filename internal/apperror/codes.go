package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	// General validation
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// External service errors
	CodeServiceTimeout     Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Quote aggregation error codes
const (
	// Exchange catalog errors
	CodeInvalidDescriptor Code = "INVALID_DESCRIPTOR"
	CodeExchangeNotFound  Code = "EXCHANGE_NOT_FOUND"

	// Request building errors
	CodeUnsupportedCurrency Code = "UNSUPPORTED_CURRENCY"
	CodeUnsupportedPair     Code = "UNSUPPORTED_PAIR"

	// Fetch errors
	CodeTransportError Code = "TRANSPORT_ERROR"

	// Response parsing errors
	CodeExtractionFailure Code = "EXTRACTION_FAILURE"

	// Selection errors
	CodeNoCandidate Code = "NO_CANDIDATE"

	// Circuit breaker errors
	CodeCircuitOpen Code = "CIRCUIT_OPEN"
)
