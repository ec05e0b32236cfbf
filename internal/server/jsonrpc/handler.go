package jsonrpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nftmarketd/nftmarketd/internal/core/id"
	"github.com/nftmarketd/nftmarketd/internal/core/keylet"
	"github.com/nftmarketd/nftmarketd/internal/core/ledger"
	"github.com/nftmarketd/nftmarketd/internal/core/sle"
	"github.com/nftmarketd/nftmarketd/internal/core/tx"
	"github.com/nftmarketd/nftmarketd/internal/storage/events"
)

var (
	ErrMethodNotFound = errors.New("method not found")
	ErrInvalidParams  = errors.New("invalid params")
)

type methodFunc func(ctx context.Context, params json.RawMessage) (interface{}, error)

// Handler dispatches JSON-RPC methods against one ledger. A mutex
// serializes submits, the sweep, and ledger closes; queries share it to
// see consistent state.
type Handler struct {
	mu      sync.Mutex
	ledger  *ledger.Ledger
	engine  *tx.Engine
	journal *events.Journal
	log     *logrus.Logger
	now     func() uint64

	methods map[string]methodFunc
}

// NewHandler wires the ledger, engine and event journal behind the RPC
// methods.
func NewHandler(l *ledger.Ledger, engine *tx.Engine, journal *events.Journal, log *logrus.Logger) *Handler {
	h := &Handler{
		ledger:  l,
		engine:  engine,
		journal: journal,
		log:     log,
		now:     func() uint64 { return uint64(time.Now().Unix()) },
	}

	h.methods = map[string]methodFunc{
		"submit":           h.handleSubmit,
		"fund":             h.handleFund,
		"asset_info":       h.handleAssetInfo,
		"collection_info":  h.handleCollectionInfo,
		"listing_info":     h.handleListingInfo,
		"installment_info": h.handleInstallmentInfo,
		"account_info":     h.handleAccountInfo,
		"ledger_info":      h.handleLedgerInfo,
		"event_history":    h.handleEventHistory,
	}

	return h
}

// SetClock overrides the wall clock, for tests.
func (h *Handler) SetClock(now func() uint64) {
	h.now = now
}

// Handle dispatches a JSON-RPC method to the appropriate handler.
func (h *Handler) Handle(ctx context.Context, method string, params json.RawMessage) (interface{}, error) {
	fn, exists := h.methods[method]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrMethodNotFound, method)
	}
	return fn(ctx, params)
}

// submitResponse is the wire form of an operation outcome.
type submitResponse struct {
	Result    string     `json:"result"`
	Applied   bool       `json:"applied"`
	Message   string     `json:"message,omitempty"`
	LedgerSeq uint32     `json:"ledger_seq,omitempty"`
	Events    []tx.Event `json:"events,omitempty"`
}

func (h *Handler) handleSubmit(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var req struct {
		Operation json.RawMessage `json:"operation"`
	}
	if err := json.Unmarshal(params, &req); err != nil || len(req.Operation) == 0 {
		return nil, fmt.Errorf("%w: submit expects an operation object", ErrInvalidParams)
	}

	op, err := tx.FromJSON(req.Operation)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.engine.SetCloseTime(h.now())
	res := h.engine.Apply(op)

	resp := submitResponse{
		Result:  res.Result.String(),
		Applied: res.Applied,
		Message: res.Message,
	}
	if res.Metadata != nil {
		resp.Events = res.Metadata.Events
	}
	if !res.Applied {
		return resp, nil
	}

	seq, err := h.closeLedger(ctx)
	if err != nil {
		return nil, err
	}
	resp.LedgerSeq = seq

	if err := h.journal.Append(ctx, seq, resp.Events); err != nil {
		// The ledger change is already durable; losing journal rows is
		// not worth failing the submit over.
		h.log.WithError(err).Error("failed to journal events")
	}

	h.log.WithFields(logrus.Fields{
		"type":       op.OpType().String(),
		"account":    op.GetCommon().Account,
		"result":     res.Result.String(),
		"ledger_seq": seq,
	}).Info("operation applied")

	return resp, nil
}

func (h *Handler) handleFund(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var req struct {
		Account string `json:"account"`
		Amount  uint64 `json:"amount"`
	}
	if err := json.Unmarshal(params, &req); err != nil || req.Account == "" || req.Amount == 0 {
		return nil, fmt.Errorf("%w: fund expects account and amount", ErrInvalidParams)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	k := keylet.Account(req.Account)
	acct := &sle.AccountRoot{Address: req.Account}
	data, err := h.ledger.Read(k)
	if err != nil {
		return nil, err
	}
	if data != nil {
		if acct, err = sle.ParseAccountRoot(data); err != nil {
			return nil, err
		}
	}
	if acct.Balance > ^uint64(0)-req.Amount {
		return nil, errors.New(tx.ErrArithmetic.Message())
	}
	acct.Balance += req.Amount

	out, err := sle.SerializeAccountRoot(acct)
	if err != nil {
		return nil, err
	}
	if err := h.ledger.Update(k, out); err != nil {
		return nil, err
	}

	seq, err := h.closeLedger(ctx)
	if err != nil {
		return nil, err
	}

	h.log.WithFields(logrus.Fields{
		"account":    req.Account,
		"amount":     req.Amount,
		"ledger_seq": seq,
	}).Info("account funded")

	return map[string]interface{}{
		"account":    req.Account,
		"balance":    acct.Balance,
		"reserved":   acct.Reserved,
		"ledger_seq": seq,
	}, nil
}

func (h *Handler) handleAssetInfo(ctx context.Context, params json.RawMessage) (interface{}, error) {
	assetID, err := assetParam(params)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := h.ledger.Read(keylet.Asset(assetID))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, errors.New(tx.ErrAssetNotFound.Message())
	}
	asset, err := sle.ParseAsset(data)
	if err != nil {
		return nil, err
	}
	return asset, nil
}

func (h *Handler) handleCollectionInfo(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var req struct {
		Collection id.ID `json:"collection"`
	}
	if err := json.Unmarshal(params, &req); err != nil || req.Collection.IsZero() {
		return nil, fmt.Errorf("%w: expected a collection identifier", ErrInvalidParams)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := h.ledger.Read(keylet.Collection(req.Collection))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, errors.New(tx.ErrCollectionNotFound.Message())
	}
	coll, err := sle.ParseCollection(data)
	if err != nil {
		return nil, err
	}
	return coll, nil
}

func (h *Handler) handleListingInfo(ctx context.Context, params json.RawMessage) (interface{}, error) {
	assetID, err := assetParam(params)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := h.ledger.Read(keylet.Listing(assetID))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, errors.New(tx.ErrListingNotFound.Message())
	}
	listing, err := sle.ParseListing(data)
	if err != nil {
		return nil, err
	}
	return listing, nil
}

func (h *Handler) handleInstallmentInfo(ctx context.Context, params json.RawMessage) (interface{}, error) {
	assetID, err := assetParam(params)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := h.ledger.Read(keylet.Plan(assetID))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, errors.New(tx.ErrPlanNotFound.Message())
	}
	plan, err := sle.ParsePlan(data)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (h *Handler) handleAccountInfo(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var req struct {
		Account string `json:"account"`
	}
	if err := json.Unmarshal(params, &req); err != nil || req.Account == "" {
		return nil, fmt.Errorf("%w: expected an account", ErrInvalidParams)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := h.ledger.Read(keylet.Account(req.Account))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, errors.New(tx.ErrNoAccount.Message())
	}
	acct, err := sle.ParseAccountRoot(data)
	if err != nil {
		return nil, err
	}
	return acct, nil
}

func (h *Handler) handleLedgerInfo(ctx context.Context, params json.RawMessage) (interface{}, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	return map[string]interface{}{
		"sequence":   h.ledger.Sequence(),
		"close_time": h.ledger.CloseTime(),
		"dirty":      h.ledger.Dirty(),
	}, nil
}

func (h *Handler) handleEventHistory(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var req struct {
		Subject string `json:"subject"`
		Limit   int    `json:"limit"`
	}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &req); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
		}
	}

	records, err := h.journal.History(ctx, req.Subject, req.Limit)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"events": records}, nil
}

// RunSweep expires listings and installment plans against the current
// wall clock and journals the resulting events.
func (h *Handler) RunSweep(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	report, err := h.engine.SweepExpired(now)
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}
	for _, skipped := range report.Skipped {
		h.log.WithField("entry", skipped).Warn("sweep skipped entry")
	}
	if report.ListingsRemoved == 0 && report.PlansExpired == 0 {
		return nil
	}

	seq, err := h.closeLedger(ctx)
	if err != nil {
		return err
	}
	if err := h.journal.Append(ctx, seq, report.Events); err != nil {
		h.log.WithError(err).Error("failed to journal sweep events")
	}

	h.log.WithFields(logrus.Fields{
		"listings_removed": report.ListingsRemoved,
		"plans_expired":    report.PlansExpired,
		"ledger_seq":       seq,
	}).Info("sweep completed")
	return nil
}

// closeLedger flushes the open overlay and points the engine at the next
// sequence. Callers hold h.mu.
func (h *Handler) closeLedger(ctx context.Context) (uint32, error) {
	seq, err := h.ledger.Close(ctx, h.now())
	if err != nil {
		return 0, fmt.Errorf("failed to close ledger: %w", err)
	}
	h.engine.SetLedgerSequence(seq + 1)
	return seq, nil
}

func assetParam(params json.RawMessage) (id.ID, error) {
	var req struct {
		Asset id.ID `json:"asset"`
	}
	if err := json.Unmarshal(params, &req); err != nil || req.Asset.IsZero() {
		return id.Zero, fmt.Errorf("%w: expected an asset identifier", ErrInvalidParams)
	}
	return req.Asset, nil
}
