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
	CodeRateLimitExceeded:    "Rate limit exceeded",

	// System errors
	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	// WebSocket / venue stream errors
	CodeWebSocketConnectionError: "WebSocket connection error",
	CodeWebSocketReconnecting:    "WebSocket reconnecting",
	CodeWebSocketClosed:          "WebSocket connection closed",
	CodeWebSocketSendError:       "Failed to send WebSocket message",
	CodeVenueLivenessExpired:     "Venue stream exceeded liveness timeout",
	CodeVenueFrameDecodeError:    "Failed to decode venue stream frame",
	CodeVenueSnapshotRejected:    "Price snapshot failed invariant checks",

	// CEX (Binance/Bybit) errors
	CodeBinanceConnectionFailed: "Failed to connect to Binance stream",
	CodeBinanceAPIError:         "Binance API error",
	CodeBinanceRateLimited:      "Binance rate limit exceeded",
	CodeBybitConnectionFailed:   "Failed to connect to Bybit stream",
	CodeOrderbookFetchFailed:    "Failed to fetch orderbook",
	CodeInvalidOrderbook:        "Invalid orderbook data",

	// Arbitrage detection errors
	CodePriceCalculationFailed: "Price calculation failed",
	CodeSpreadCalculationError: "Spread calculation error",
	CodeInvalidTradeSize:       "Invalid trade size",

	// Alert gate / notification errors
	CodeAlertMailboxFull:   "Alert mailbox is full, dropping notification",
	CodeNotificationFailed: "Failed to deliver notification",

	// Signed trading client errors
	CodeSignedRequestFailed:     "Signed trading request failed",
	CodeSignedRequestTimeout:    "Signed trading request timed out waiting for a response",
	CodeTradingConnectionClosed: "Trading connection closed",
	CodeMissingTradingCreds:     "Missing trading API credentials",

	// Cache errors
	CodeCacheMiss:    "Cache miss",
	CodeCacheExpired: "Cache entry expired",

	// Circuit breaker errors
	CodeCircuitOpen:     "Circuit breaker is open",
	CodeCircuitHalfOpen: "Circuit breaker is half-open",
}
