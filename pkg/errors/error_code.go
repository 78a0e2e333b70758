package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Configuration errors (100-199)
	ErrCodeInvalidParameter      ErrorCode = 100
	ErrCodeInvalidConfiguration  ErrorCode = 101
	ErrCodeInvalidRiskParameters ErrorCode = 102
	ErrCodeMissingParameter      ErrorCode = 103
	ErrCodeInvalidInterval       ErrorCode = 104
	ErrCodeSchemaVersionMismatch ErrorCode = 105

	// Data errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeNoDataFound           ErrorCode = 203
	ErrCodeDataParseFailed       ErrorCode = 204

	// Indicator errors (300-399)
	ErrCodeInvalidIndicatorParameters ErrorCode = 300
	ErrCodeInsufficientData           ErrorCode = 301
	ErrCodeIndicatorCalculation       ErrorCode = 302

	// Signal errors (400-499)
	ErrCodeSignalConfigError ErrorCode = 400

	// Risk errors (500-599)
	ErrCodeRiskLimitExceeded ErrorCode = 500
	ErrCodePositionNotFound  ErrorCode = 501
	ErrCodeInvalidVolume     ErrorCode = 502

	// Persistence errors (600-699)
	ErrCodeStateSaveFailed ErrorCode = 600
	ErrCodeStateLoadFailed ErrorCode = 601

	// Backtest errors (700-799)
	ErrCodeBacktestInitFailed  ErrorCode = 700
	ErrCodeBacktestConfigError ErrorCode = 701
	ErrCodeBacktestRunFailed   ErrorCode = 702
	ErrCodeReportWriteFailed   ErrorCode = 703

	// Trading errors (800-899)
	ErrCodeTradingInitFailed     ErrorCode = 800
	ErrCodeOrderFailed           ErrorCode = 801
	ErrCodeMarketDataFetchFailed ErrorCode = 802
	ErrCodeMarketDataWriteFailed ErrorCode = 803
	ErrCodeStreamingNotSupported ErrorCode = 804
	ErrCodeInvalidProvider       ErrorCode = 805
	ErrCodeCallbackFailed        ErrorCode = 806
)
