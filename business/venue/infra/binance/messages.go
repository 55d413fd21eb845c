// Package binance implements the Venue Stream Client for Binance spot and
// USD-M futures top-of-book depth streams.
package binance

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// subscribeRequest is the post-connect SUBSCRIBE frame. Binance also
// accepts the subscription encoded directly in the connect URL path, which
// is what this client uses, but the ack still needs to be recognised and
// ignored.
type subscribeRequest struct {
	Method string   `json:"method"`
	Params []string `json:"params"`
	ID     int64    `json:"id"`
}

// subscribeAck is the `{result: null, id: 1}` response to a SUBSCRIBE
// frame; it carries no data and is ignored once recognised.
type subscribeAck struct {
	Result json.RawMessage `json:"result"`
	ID     int64           `json:"id"`
}

// depthFrame covers both the spot and futures depth-update shapes. Futures
// frames additionally carry T (transaction time) and pu (previous final
// update ID); their presence is what distinguishes a futures frame from a
// spot one on the wire, since both otherwise share e/s/b/a.
type depthFrame struct {
	EventType     string     `json:"e"`
	EventTime     int64      `json:"E"`
	TransactTime  *int64     `json:"T"`
	Symbol        string     `json:"s"`
	FirstUpdateID int64      `json:"U"`
	FinalUpdateID int64      `json:"u"`
	PrevFinalID   *int64     `json:"pu"`
	Bids          [][]string `json:"b"`
	Asks          [][]string `json:"a"`
}

// isFutures reports whether this frame carries the futures-only fields.
func (f depthFrame) isFutures() bool {
	return f.TransactTime != nil || f.PrevFinalID != nil
}

// bestLevel returns the top-of-book price: the literal first element of
// levels, as the venue already orders bids highest-first and asks
// lowest-first on the wire.
func bestLevel(levels [][]string) (decimal.Decimal, bool) {
	if len(levels) == 0 {
		return decimal.Decimal{}, false
	}
	lvl := levels[0]
	if len(lvl) < 2 {
		return decimal.Decimal{}, false
	}
	price, err := decimal.NewFromString(lvl[0])
	if err != nil {
		return decimal.Decimal{}, false
	}
	return price, true
}
