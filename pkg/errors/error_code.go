package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidType          ErrorCode = 107
	ErrCodeInvalidPeriod        ErrorCode = 108
	ErrCodeMissingParameter     ErrorCode = 109
	ErrCodeInvalidVersion       ErrorCode = 110
	ErrCodeInvalidDate          ErrorCode = 120
	ErrCodeInvalidSpecifier     ErrorCode = 121

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound ErrorCode = 200
	ErrCodeNoDataFound  ErrorCode = 204
	ErrCodeColumnLength ErrorCode = 206
	ErrCodeColumnType   ErrorCode = 207

	// Indicator errors (300-399)
	ErrCodeIndicatorNotFound      ErrorCode = 300
	ErrCodeIndicatorAlreadyExists ErrorCode = 301
	ErrCodeIndicatorCalculation   ErrorCode = 302
	ErrCodeIndicatorInputMissing  ErrorCode = 303

	// Market data errors (700-799)
	ErrCodeMarketDataFetchFailed ErrorCode = 700
	ErrCodeMarketDataWriteFailed ErrorCode = 701
	ErrCodeMarketDataParseFailed ErrorCode = 702
	ErrCodeInvalidTimespan       ErrorCode = 703
	ErrCodeInvalidProvider       ErrorCode = 704
	ErrCodeClientError           ErrorCode = 705
	ErrCodeServerError           ErrorCode = 706
	ErrCodeTransportError        ErrorCode = 707
	ErrCodeRetryExhausted        ErrorCode = 708
	ErrCodeMissingCredentials    ErrorCode = 709
	ErrCodeInvalidWriter         ErrorCode = 710
)
