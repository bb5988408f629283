package feed

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"limitbook/internal/engine"
)

// PlaceOrderRequest is the request body for placing an order.
type PlaceOrderRequest struct {
	Symbol   string          `json:"symbol"`
	Side     string          `json:"side"` // "bid" or "ask"
	Kind     string          `json:"kind"` // "limit" or "market"
	Price    decimal.Decimal `json:"price,omitempty"`
	Quantity uint64          `json:"quantity"`
	Client   string          `json:"client,omitempty"`
}

// PlaceOrderResponse is the response for a placed order.
type PlaceOrderResponse struct {
	OrderID     engine.OrderID `json:"order_id"`
	FilledQty   uint64         `json:"filled_qty"`
	ResidualQty uint64         `json:"residual_qty"`
	Resting     bool           `json:"resting"`
	Trades      []engine.Trade `json:"trades"`
}

// handlePlaceOrder handles POST /api/orders.
func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	var side engine.Side
	switch req.Side {
	case "bid":
		side = engine.Bid
	case "ask":
		side = engine.Ask
	default:
		writeError(w, http.StatusBadRequest, "invalid side: must be 'bid' or 'ask'")
		return
	}

	var kind engine.Kind
	switch req.Kind {
	case "limit":
		kind = engine.Limit
	case "market":
		kind = engine.Market
	default:
		writeError(w, http.StatusBadRequest, "invalid kind: must be 'limit' or 'market'")
		return
	}

	guard := s.guardFor(req.Symbol)

	guard.mu.Lock()
	order := &engine.Order{
		ID:        engine.OrderID(uuid.New().String()),
		Timestamp: time.Now().UnixNano(),
		Kind:      kind,
		Side:      side,
		Price:     guard.book.Scale().ToTicks(req.Price),
		Quantity:  req.Quantity,
		Client:    req.Client,
	}

	result, err := guard.book.PlaceOrder(order)
	guard.mu.Unlock()

	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.broadcastBook(req.Symbol)
	for _, tr := range result.Trades {
		s.wsHub.Broadcast(req.Symbol, Message{Type: "trade", Data: tr})
	}

	writeJSON(w, http.StatusOK, PlaceOrderResponse{
		OrderID:     order.ID,
		FilledQty:   result.FilledQty,
		ResidualQty: result.ResidualQty,
		Resting:     result.Resting,
		Trades:      result.Trades,
	})
}

// handleCancelOrder handles DELETE /api/orders/{id}?symbol=xxx
func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("id")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "order id required")
		return
	}
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	guard := s.guardFor(symbol)

	guard.mu.Lock()
	guard.book.CancelOrder(engine.OrderID(orderID))
	guard.mu.Unlock()

	s.broadcastBook(symbol)

	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "cancelled",
		"order_id": orderID,
	})
}

// BookSnapshot is the wire representation of a book's best prices and the
// aggregate quantity resting at each.
type BookSnapshot struct {
	Symbol  string           `json:"symbol"`
	BestBid *decimal.Decimal `json:"best_bid,omitempty"`
	BestAsk *decimal.Decimal `json:"best_ask,omitempty"`
	BidQty  uint64           `json:"bid_qty"`
	AskQty  uint64           `json:"ask_qty"`
}

func snapshotFor(symbol string, book *engine.Book) BookSnapshot {
	snap := BookSnapshot{Symbol: symbol}

	if p, ok := book.GetBestBidPrice(); ok {
		d := book.Scale().FromTicks(p)
		snap.BestBid = &d
		snap.BidQty = book.GetQuantityForPrice(p, engine.Bid)
	}
	if p, ok := book.GetBestAskPrice(); ok {
		d := book.Scale().FromTicks(p)
		snap.BestAsk = &d
		snap.AskQty = book.GetQuantityForPrice(p, engine.Ask)
	}
	return snap
}

// handleGetBook handles GET /api/book?symbol=xxx
func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	guard := s.guardFor(symbol)

	guard.mu.Lock()
	snap := snapshotFor(symbol, guard.book)
	guard.mu.Unlock()

	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) broadcastBook(symbol string) {
	guard := s.guardFor(symbol)

	guard.mu.Lock()
	snap := snapshotFor(symbol, guard.book)
	guard.mu.Unlock()

	s.wsHub.Broadcast(symbol, Message{Type: "book", Data: snap})
}
