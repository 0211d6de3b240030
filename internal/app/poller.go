package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homework_status_bot/internal/domain/homework"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	StartupMessage    = "Старт"
	failureNoticeTmpl = "Сбой в работе программы: %v"
)

// HomeworkAPI fetches homework statuses changed since fromDate.
type HomeworkAPI interface {
	GetAPIAnswer(ctx context.Context, fromDate int64) (any, error)
}

// Waiter blocks until the next poll is due.
type Waiter interface {
	Wait(ctx context.Context) error
}

// Poller drives the fetch, validate, notify cycle. It owns the cursor and is
// not safe for concurrent use.
type Poller struct {
	api      HomeworkAPI
	notifier *Notifier
	verdicts homework.Verdicts
	journal  homework.Journal
	waiter   Waiter
	logger   *logrus.Entry
	now      func() time.Time

	cursor int64
}

// NewPoller builds a poller whose cursor starts at the current time.
// journal may be nil.
func NewPoller(
	api HomeworkAPI,
	notifier *Notifier,
	verdicts homework.Verdicts,
	journal homework.Journal,
	waiter Waiter,
	logger *logrus.Entry,
) *Poller {
	p := &Poller{
		api:      api,
		notifier: notifier,
		verdicts: verdicts,
		journal:  journal,
		waiter:   waiter,
		logger:   logger,
		now:      time.Now,
	}
	p.cursor = p.now().Unix()
	return p
}

// Cursor returns the lower bound of the next query window.
func (p *Poller) Cursor() int64 {
	return p.cursor
}

// Run announces startup and polls until ctx is cancelled. Cycle failures
// never stop the loop.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.WithField("cursor", p.cursor).Info("Poller started")
	p.notifier.Send(ctx, StartupMessage)

	for {
		_ = p.Cycle(ctx)

		if err := p.waiter.Wait(ctx); err != nil {
			p.logger.WithError(err).Info("Poller stopped")
			return err
		}
	}
}

// Cycle runs one poll. On failure the error is logged, a failure notice is
// sent and the cursor is left untouched; the error is returned for callers
// that want to observe it.
func (p *Poller) Cycle(ctx context.Context) error {
	cycleID := uuid.NewString()
	log := p.logger.WithFields(logrus.Fields{
		"cycle_id":  cycleID,
		"from_date": p.cursor,
	})

	if err := p.poll(ctx, cycleID, log); err != nil {
		log.WithError(err).WithField("error_kind", errorKind(err)).Error("Сбой в работе программы")
		p.notifier.Send(ctx, fmt.Sprintf(failureNoticeTmpl, err))
		return err
	}
	return nil
}

func (p *Poller) poll(ctx context.Context, cycleID string, log *logrus.Entry) error {
	response, err := p.api.GetAPIAnswer(ctx, p.cursor)
	if err != nil {
		return err
	}

	homeworks, err := homework.CheckResponse(response)
	if err != nil {
		return err
	}
	currentDate, err := homework.CurrentDate(response)
	if err != nil {
		return err
	}

	if len(homeworks) == 0 {
		p.cursor = currentDate
		log.WithFields(logrus.Fields{"state": "idle", "cursor": currentDate}).Info("Новых статусов нет")
		return nil
	}

	// Only the most recent record is reported.
	latest := homeworks[0]
	message, err := p.verdicts.ParseStatus(latest)
	if err != nil {
		return err
	}

	if p.notifier.Send(ctx, message) {
		p.record(ctx, cycleID, log, latest, message)
	}

	p.cursor = currentDate
	log.WithField("cursor", currentDate).Info("Программа работает без сбоев")
	return nil
}

func (p *Poller) record(ctx context.Context, cycleID string, log *logrus.Entry, record any, message string) {
	if p.journal == nil {
		return
	}

	entry := homework.JournalEntry{
		CycleID:      cycleID,
		HomeworkName: homework.Name(record),
		Status:       homework.StatusOf(record),
		Message:      message,
		FromDate:     p.cursor,
		SentAt:       p.now(),
	}
	if err := p.journal.Record(ctx, entry); err != nil {
		log.WithError(err).Warn("Failed to journal notification")
	}
}

func errorKind(err error) string {
	var (
		transportErr *homework.TransportError
		codeErr      *homework.StatusCodeError
		decodeErr    *homework.DecodeError
		typeErr      *homework.ResponseTypeError
		keyErr       *homework.MissingKeyError
		fieldErr     *homework.MissingFieldError
		statusErr    *homework.UnknownStatusError
	)
	switch {
	case errors.As(err, &transportErr):
		return "transport"
	case errors.As(err, &codeErr):
		return "response_code"
	case errors.As(err, &decodeErr), errors.As(err, &typeErr), errors.As(err, &keyErr), errors.As(err, &fieldErr):
		return "response_shape"
	case errors.As(err, &statusErr):
		return "unknown_status"
	default:
		return "other"
	}
}
