package trading

import "github.com/shopspring/decimal"

// Side is the order direction.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// OrderType enumerates the order types the venue accepts.
type OrderType string

const (
	TypeLimit             OrderType = "LIMIT"
	TypeMarket            OrderType = "MARKET"
	TypeStop              OrderType = "STOP"
	TypeStopMarket        OrderType = "STOP_MARKET"
	TypeTakeProfit        OrderType = "TAKE_PROFIT"
	TypeTakeProfitMarket  OrderType = "TAKE_PROFIT_MARKET"
	TypeTrailingStopMkt   OrderType = "TRAILING_STOP_MARKET"
)

// TimeInForce enumerates order time-in-force policies.
type TimeInForce string

const (
	TIFGTC TimeInForce = "GTC"
	TIFIOC TimeInForce = "IOC"
	TIFFOK TimeInForce = "FOK"
	TIFGTX TimeInForce = "GTX"
	TIFGTD TimeInForce = "GTD"
)

// PositionSide enumerates hedge-mode position sides.
type PositionSide string

const (
	PositionBoth  PositionSide = "BOTH"
	PositionLong  PositionSide = "LONG"
	PositionShort PositionSide = "SHORT"
)

// WorkingType selects the price used to trigger stop/take-profit orders.
type WorkingType string

const (
	WorkingMarkPrice     WorkingType = "MARK_PRICE"
	WorkingContractPrice WorkingType = "CONTRACT_PRICE"
)

// NewOrderRespType selects how much detail the venue echoes back.
type NewOrderRespType string

const (
	RespAck    NewOrderRespType = "ACK"
	RespResult NewOrderRespType = "RESULT"
)

// Order describes an order.place request. Optional fields use pointers so
// a caller can omit them entirely rather than sending a zero value the
// venue would interpret literally.
type Order struct {
	Symbol      string
	Side        Side
	Type        OrderType
	TimeInForce TimeInForce

	Quantity  decimal.Decimal
	Price     *decimal.Decimal
	StopPrice *decimal.Decimal

	ReduceOnly      *bool
	ClosePosition   *bool
	PositionSide    PositionSide
	ActivationPrice *decimal.Decimal
	CallbackRate    *decimal.Decimal
	WorkingType     WorkingType
	PriceProtect    *bool

	NewOrderRespType NewOrderRespType
	NewClientOrderID string
}

// toParams renders the order as the camelCase string-keyed map the signer
// expects. Every numeric field is serialised as its decimal string form,
// matching the venue's wire contract literally rather than as a float.
func (o Order) toParams() map[string]string {
	p := map[string]string{
		"symbol":   o.Symbol,
		"side":     string(o.Side),
		"type":     string(o.Type),
		"quantity": o.Quantity.String(),
	}
	if o.TimeInForce != "" {
		p["timeInForce"] = string(o.TimeInForce)
	}
	if o.Price != nil {
		p["price"] = o.Price.String()
	}
	if o.StopPrice != nil {
		p["stopPrice"] = o.StopPrice.String()
	}
	if o.ReduceOnly != nil {
		p["reduceOnly"] = boolString(*o.ReduceOnly)
	}
	if o.ClosePosition != nil {
		p["closePosition"] = boolString(*o.ClosePosition)
	}
	if o.PositionSide != "" {
		p["positionSide"] = string(o.PositionSide)
	}
	if o.ActivationPrice != nil {
		p["activationPrice"] = o.ActivationPrice.String()
	}
	if o.CallbackRate != nil {
		p["callbackRate"] = o.CallbackRate.String()
	}
	if o.WorkingType != "" {
		p["workingType"] = string(o.WorkingType)
	}
	if o.PriceProtect != nil {
		p["priceProtect"] = boolString(*o.PriceProtect)
	}
	if o.NewOrderRespType != "" {
		p["newOrderRespType"] = string(o.NewOrderRespType)
	}
	if o.NewClientOrderID != "" {
		p["newClientOrderId"] = o.NewClientOrderID
	}
	return p
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
