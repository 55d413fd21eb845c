package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	// General validation
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// External service errors
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Venue arbitrage error codes
const (
	// WebSocket / venue stream errors
	CodeWebSocketConnectionError Code = "WEBSOCKET_CONNECTION_ERROR"
	CodeWebSocketReconnecting    Code = "WEBSOCKET_RECONNECTING"
	CodeWebSocketClosed          Code = "WEBSOCKET_CLOSED"
	CodeWebSocketSendError       Code = "WEBSOCKET_SEND_ERROR"
	CodeVenueLivenessExpired     Code = "VENUE_LIVENESS_EXPIRED"
	CodeVenueFrameDecodeError    Code = "VENUE_FRAME_DECODE_ERROR"
	CodeVenueSnapshotRejected    Code = "VENUE_SNAPSHOT_REJECTED"

	// CEX (Binance/Bybit) errors
	CodeBinanceConnectionFailed Code = "BINANCE_CONNECTION_FAILED"
	CodeBinanceAPIError         Code = "BINANCE_API_ERROR"
	CodeBinanceRateLimited      Code = "BINANCE_RATE_LIMITED"
	CodeBybitConnectionFailed   Code = "BYBIT_CONNECTION_FAILED"
	CodeOrderbookFetchFailed    Code = "ORDERBOOK_FETCH_FAILED"
	CodeInvalidOrderbook        Code = "INVALID_ORDERBOOK"

	// Arbitrage detection errors
	CodePriceCalculationFailed Code = "PRICE_CALCULATION_FAILED"
	CodeSpreadCalculationError Code = "SPREAD_CALCULATION_ERROR"
	CodeInvalidTradeSize       Code = "INVALID_TRADE_SIZE"

	// Alert gate / notification errors
	CodeAlertMailboxFull   Code = "ALERT_MAILBOX_FULL"
	CodeNotificationFailed Code = "NOTIFICATION_FAILED"

	// Signed trading client errors
	CodeSignedRequestFailed     Code = "SIGNED_REQUEST_FAILED"
	CodeSignedRequestTimeout    Code = "SIGNED_REQUEST_TIMEOUT"
	CodeTradingConnectionClosed Code = "TRADING_CONNECTION_CLOSED"
	CodeMissingTradingCreds     Code = "MISSING_TRADING_CREDENTIALS"

	// Cache errors
	CodeCacheMiss    Code = "CACHE_MISS"
	CodeCacheExpired Code = "CACHE_EXPIRED"

	// Circuit breaker errors
	CodeCircuitOpen     Code = "CIRCUIT_OPEN"
	CodeCircuitHalfOpen Code = "CIRCUIT_HALF_OPEN"
)
