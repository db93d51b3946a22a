package bot

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"eduappbot/internal/eduapp"
	"eduappbot/internal/models"
	"eduappbot/internal/ui"

	"github.com/rs/zerolog"
)

var periodPattern = regexp.MustCompile(`^\d{2}\.\d{2}-\d{2}\.\d{2}$`)

var (
	errPeriodFormat = errors.New("period format")
	errPeriodDay    = errors.New("period day")
	errPeriodOrder  = errors.New("period order")
)

// parsePeriod разбирает "DD.MM-DD.MM" в даты текущего года, конец включительно.
func parsePeriod(text string, now time.Time) (start, end time.Time, err error) {
	text = strings.TrimSpace(text)
	if !periodPattern.MatchString(text) {
		return time.Time{}, time.Time{}, errPeriodFormat
	}

	parts := strings.SplitN(text, "-", 2)
	year := now.Format("2006")
	start, errStart := time.ParseInLocation("02.01.2006", parts[0]+"."+year, now.Location())
	end, errEnd := time.ParseInLocation("02.01.2006", parts[1]+"."+year, now.Location())
	if errStart != nil || errEnd != nil {
		return time.Time{}, time.Time{}, errPeriodDay
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, errPeriodOrder
	}
	return start, end, nil
}

func periodMessage(err error) string {
	switch {
	case errors.Is(err, errPeriodDay):
		return ui.ErrPeriodDay
	case errors.Is(err, errPeriodOrder):
		return ui.ErrPeriodOrder
	default:
		return ui.ErrPeriodFormat
	}
}

// monthWindow окно от первого числа месяца до первого числа следующего, сдвинутое на offset месяцев.
func monthWindow(now time.Time, offset int) (time.Time, time.Time) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return first.AddDate(0, offset, 0), first.AddDate(0, offset+1, 0)
}

func monthOffset(label string) int {
	switch label {
	case ui.ButtonMonthPrevious:
		return -1
	case ui.ButtonMonthNext:
		return 1
	}
	return 0
}

func (b *Bot) handleCalendarMonth(ctx context.Context, session *models.Session, label string) StateID {
	start, end := monthWindow(b.now(), monthOffset(label))
	return b.fetchCalendar(ctx, session, start, end)
}

// handlePeriodInput при ошибке повторяет запрос периода с описанием ошибки.
func (b *Bot) handlePeriodInput(ctx context.Context, session *models.Session, text string) {
	start, end, err := parsePeriod(text, b.now())
	if err != nil {
		scr := staticScreen(StateCalendarPeriod)
		scr.prompt = periodMessage(err)
		b.render(ctx, session, scr)
		return
	}

	// API сравнивает начало занятия с датой, поэтому последний день включаем сдвигом на сутки
	b.enter(ctx, session, b.fetchCalendar(ctx, session, start, end.AddDate(0, 0, 1)))
}

// fetchCalendar запрашивает расписание. При ошибке один раз перелогинивается
// с сохраненными данными и повторяет запрос.
func (b *Bot) fetchCalendar(ctx context.Context, session *models.Session, start, end time.Time) StateID {
	l := zerolog.Ctx(ctx)
	creds, ok := b.auth.Credentials(session.ChatID)
	if !ok {
		b.sendMessage(session.ChatID, ui.MsgAuthRequired)
		return StateMain
	}

	cal, err := b.lms.Calendar(ctx, creds.Token, start, end)
	if err != nil {
		l.Info().Err(err).Int64("chat_id", session.ChatID).Msg("Calendar fetch failed, relogin")
		fresh, reloginErr := b.auth.Relogin(ctx, session.ChatID)
		if reloginErr != nil {
			err = reloginErr
		} else {
			cal, err = b.lms.Calendar(ctx, fresh.Token, start, end)
		}
	}

	switch {
	case errors.Is(err, eduapp.ErrMalformedResponse):
		l.Warn().Err(err).Msg("Malformed calendar")
		b.sendMessage(session.ChatID, ui.MsgCalendarMalformed)
		return StateCalendar
	case err != nil:
		l.Warn().Err(err).Msg("Calendar unavailable")
		b.sendMessage(session.ChatID, ui.MsgNoLessons)
		return StateCalendar
	case cal.Empty():
		b.sendMessage(session.ChatID, ui.MsgNoLessons)
		return StateCalendar
	}

	text, err := b.renderer.Calendar(cal)
	if err != nil {
		l.Warn().Err(err).Msg("Failed to render calendar")
		b.sendMessage(session.ChatID, ui.MsgCalendarMalformed)
		return StateCalendar
	}
	b.sendHTML(session.ChatID, text)
	return StateCalendar
}
