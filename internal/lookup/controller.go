package lookup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vijay-prabhu/gcgcards/internal/backend"
	"github.com/vijay-prabhu/gcgcards/internal/card"
	"github.com/vijay-prabhu/gcgcards/internal/database"
	"github.com/vijay-prabhu/gcgcards/internal/filter"
)

// Status messages shown to the user
const (
	MsgNotConfigured = "請設定 backend.base_url（或環境變數 GCG_API_BASE_URL）"
	MsgUnknownError  = "未知錯誤"
	MsgCheckNetwork  = "請檢查網路"
	MsgSaved         = "已儲存加權分數。"
	saveHint         = "（若為 standalone 腳本，請在 Config.gs 設定 SPREADSHEET_ID）"
)

// ErrCardNotFound is returned by Find when no record has the card number
var ErrCardNotFound = errors.New("card not found")

// Backend is the subset of the backend client the controller needs
type Backend interface {
	Configured() bool
	QueryURL(criteria filter.Criteria, useCriteria bool) (string, error)
	Query(ctx context.Context, criteria filter.Criteria) (backend.Result, error)
	SetWeightedAdjustment(ctx context.Context, cardNo, adjustment string) (backend.Result, error)
}

// Journal records weighted-adjustment save attempts
type Journal interface {
	RecordAdjustment(ctx context.Context, a *database.Adjustment) error
}

// Controller runs search and save cycles against the backend and pushes
// every visible effect to its Presenter.
type Controller struct {
	backend   Backend
	presenter Presenter
	journal   Journal
	logger    *zap.Logger
}

// Option configures a Controller
type Option func(*Controller)

// WithJournal records every save attempt in j
func WithJournal(j Journal) Option {
	return func(c *Controller) {
		c.journal = j
	}
}

// New creates a controller. The backend endpoint is fixed by b.
func New(b Backend, p Presenter, logger *zap.Logger, opts ...Option) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Controller{backend: b, presenter: p, logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// QueryURL returns the URL a search with criteria would request
func (c *Controller) QueryURL(criteria filter.Criteria, useCriteria bool) (string, error) {
	return c.backend.QueryURL(criteria, useCriteria)
}

// Search runs one full search cycle: query, local filter, optional sort by
// score, render, status. Every failure renders an empty result set and
// posts an error status; the search control is always released.
func (c *Controller) Search(ctx context.Context, criteria filter.Criteria) ([]card.Card, error) {
	if !c.backend.Configured() {
		c.presenter.ShowStatus(errorStatus(MsgNotConfigured))
		return nil, backend.ErrNotConfigured
	}

	c.presenter.ClearStatus()
	c.presenter.SetBusy(ControlSearch, true)
	defer c.presenter.SetBusy(ControlSearch, false)

	start := time.Now()
	result, err := c.backend.Query(ctx, criteria)
	if err != nil {
		c.presenter.Render(nil)
		c.presenter.ShowStatus(errorStatus(requestFailed(err)))
		c.logger.Warn("search failed", zap.String("criteria", criteria.String()), zap.Error(err))
		return nil, err
	}

	switch r := result.(type) {
	case backend.Success:
		f := filter.New(criteria)
		cards := f.Apply(r.Cards)
		if ce := c.logger.Check(zap.DebugLevel, "local filter"); ce != nil {
			stats := f.GetStats(r.Cards)
			ce.Write(zap.Int("included", stats.Included), zap.Any("rejected", stats.ByCriteria))
		}
		c.presenter.Render(cards)
		c.presenter.ShowStatus(Status{Kind: StatusOK, Message: fmt.Sprintf("共 %d 張符合條件。", len(cards))})
		c.logger.Info("search completed",
			zap.String("criteria", criteria.String()),
			zap.Int("received", len(r.Cards)),
			zap.Int("matched", len(cards)),
			zap.Duration("elapsed", time.Since(start)))
		return cards, nil

	case backend.Failure:
		c.presenter.Render(nil)
		c.presenter.ShowStatus(errorStatus("錯誤：" + orUnknown(r.Message)))
		err := backend.Err(backend.ActionQuery, r)
		c.logger.Warn("search rejected", zap.String("criteria", criteria.String()), zap.Error(err))
		return nil, err

	default:
		c.presenter.Render(nil)
		c.presenter.ShowStatus(errorStatus("錯誤：" + MsgUnknownError))
		return nil, fmt.Errorf("unexpected backend result %T", result)
	}
}

// SaveAdjustment writes a weighted adjustment for cardNo, sending the raw
// value unvalidated. On success it runs a fresh Search with criteria so the
// new value arrives through the backend like any other field.
func (c *Controller) SaveAdjustment(ctx context.Context, cardNo, adjustment string, criteria filter.Criteria) error {
	if !c.backend.Configured() {
		c.presenter.ShowStatus(errorStatus(MsgNotConfigured))
		return backend.ErrNotConfigured
	}

	if err := c.save(ctx, cardNo, adjustment); err != nil {
		return err
	}

	_, err := c.Search(ctx, criteria)
	return err
}

// save performs the write with the save control held busy
func (c *Controller) save(ctx context.Context, cardNo, adjustment string) error {
	c.presenter.SetBusy(ControlSave, true)
	defer c.presenter.SetBusy(ControlSave, false)

	result, err := c.backend.SetWeightedAdjustment(ctx, cardNo, adjustment)
	if err != nil {
		msg := "儲存失敗：" + transportCause(err)
		c.presenter.ShowStatus(errorStatus(msg))
		c.record(ctx, cardNo, adjustment, database.OutcomeFailed, err.Error())
		return err
	}

	switch r := result.(type) {
	case backend.Success:
		c.presenter.ShowStatus(Status{Kind: StatusOK, Message: MsgSaved})
		c.record(ctx, cardNo, adjustment, database.OutcomeSaved, "")
		c.logger.Info("adjustment saved", zap.String("card_no", cardNo), zap.String("value", adjustment))
		return nil

	case backend.Failure:
		message := r.Message
		outcome := database.OutcomeRejected
		if r.Malformed {
			message = ""
			outcome = database.OutcomeFailed
		}
		c.presenter.ShowStatus(errorStatus("儲存失敗：" + orUnknown(message) + saveHint))
		err := backend.Err(backend.ActionSetWeightedAdjustment, r)
		c.record(ctx, cardNo, adjustment, outcome, err.Error())
		c.logger.Warn("adjustment rejected", zap.String("card_no", cardNo), zap.Error(err))
		return err

	default:
		c.presenter.ShowStatus(errorStatus("儲存失敗：" + MsgUnknownError + saveHint))
		return fmt.Errorf("unexpected backend result %T", result)
	}
}

// Find fetches the unfiltered card list and returns the record whose card
// number matches cardNo. It does not touch the presenter.
func (c *Controller) Find(ctx context.Context, cardNo string) (*card.Card, error) {
	result, err := c.backend.Query(ctx, filter.Criteria{})
	if err != nil {
		return nil, err
	}
	if err := backend.Err(backend.ActionQuery, result); err != nil {
		return nil, err
	}

	want := strings.TrimSpace(cardNo)
	for _, rec := range result.(backend.Success).Cards {
		if strings.EqualFold(rec.Key(), want) {
			return &rec, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrCardNotFound, want)
}

func (c *Controller) record(ctx context.Context, cardNo, value string, outcome database.Outcome, message string) {
	if c.journal == nil {
		return
	}

	a := &database.Adjustment{CardNo: strings.TrimSpace(cardNo), Value: value, Outcome: outcome}
	if message != "" {
		a.Message = &message
	}
	if err := c.journal.RecordAdjustment(ctx, a); err != nil {
		c.logger.Warn("failed to journal adjustment", zap.String("card_no", cardNo), zap.Error(err))
	}
}

func errorStatus(msg string) Status {
	return Status{Kind: StatusError, Message: msg}
}

func orUnknown(msg string) string {
	if msg == "" {
		return MsgUnknownError
	}
	return msg
}

// requestFailed formats the status for a search that got no response
func requestFailed(err error) string {
	if errors.Is(err, backend.ErrNotConfigured) {
		return MsgNotConfigured
	}
	return "請求失敗：" + transportCause(err)
}

// transportCause extracts the underlying error text for display
func transportCause(err error) string {
	var te *backend.TransportError
	if errors.As(err, &te) {
		if cause := te.Cause(); cause != "" {
			return cause
		}
		return MsgCheckNetwork
	}
	if err.Error() == "" {
		return MsgCheckNetwork
	}
	return err.Error()
}
