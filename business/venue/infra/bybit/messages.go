// Package bybit implements the Venue Stream Client for Bybit spot and
// linear-perpetual (futures) top-of-book orderbook streams.
package bybit

import (
	"github.com/shopspring/decimal"
)

// subscribeRequest is the post-connect subscription frame; Bybit (unlike
// Binance) requires this — it has no per-symbol connect-path shorthand.
type subscribeRequest struct {
	Op   string   `json:"op"`
	Args []string `json:"args"`
}

// orderbookFrame is the `orderbook.1.<SYMBOL>` push shape. Type is
// "snapshot" for the first frame after subscribing and "delta" afterwards;
// this client only reads top-of-book so both are handled identically —
// the latest non-empty level wins either way.
type orderbookFrame struct {
	Topic string             `json:"topic"`
	Type  string             `json:"type"`
	Data  orderbookFrameData `json:"data"`
}

type orderbookFrameData struct {
	Symbol string     `json:"s"`
	Bids   [][]string `json:"b"`
	Asks   [][]string `json:"a"`
	Update int64      `json:"u"`
	Seq    int64      `json:"seq"`
}

// isOrderbookFrame reports whether raw decoded into a recognisable
// orderbook push rather than a subscription ack or pong.
func (f orderbookFrame) isOrderbookFrame() bool {
	return f.Topic != "" && (f.Type == "snapshot" || f.Type == "delta")
}

// bestLevel returns the top-of-book price: the literal first element of
// levels, mirroring the Binance client's handling — Bybit, too, already
// orders bids highest-first and asks lowest-first on the wire.
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
