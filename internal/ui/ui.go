package ui

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"time"
	"unicode/utf8"

	"eduappbot/internal/models"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// ErrRender шаблон не смог отобразить данные.
var ErrRender = errors.New("ui: render failed")

var monthNames = [...]string{
	"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
	"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
}

var statusSymbols = map[string]string{
	models.LessonVisited: "🟢",
	models.LessonMissed:  "🔴",
	models.LessonPlanned: "⚪",
}

const (
	dayLayout   = "02.01"
	timeLayout  = "15:04"
	stampLayout = "02.01.2006 15:04"
)

// MaxMessageLength предел длины текста сообщения Telegram в символах.
const MaxMessageLength = 4096

const (
	maxSubjectRunes = 200
	maxPreviewRunes = 300
	maxCommentRunes = 1000
)

// Renderer форматирует ответы EduApp в HTML для Telegram.
type Renderer struct {
	tmpl *template.Template
}

func New() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

func (r *Renderer) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrRender, name, err)
	}
	return buf.String(), nil
}

func fits(text string) bool {
	return utf8.RuneCountInString(text) <= MaxMessageLength
}

// truncate обрезает s до n символов, отмечая обрезку многоточием.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}

// MonthName название месяца в именительном падеже.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}

// StatusSymbol значок статуса посещения, пустая строка для неизвестного статуса.
func StatusSymbol(status string) string {
	return statusSymbols[status]
}

func (r *Renderer) Profile(p *models.Profile) (string, error) {
	if p == nil {
		return "", fmt.Errorf("%w: empty profile", ErrRender)
	}
	return r.execute("profile", p)
}

type lessonView struct {
	Symbol  string
	Start   string
	Finish  string
	Subject string
	Theme   string
	Base    bool
}

type dayView struct {
	Date    string
	Lessons []lessonView
}

// Calendar расписание, заголовок берется по месяцу первого дня с занятиями.
func (r *Renderer) Calendar(c *models.Calendar) (string, error) {
	if c.Empty() {
		return "", fmt.Errorf("%w: empty calendar", ErrRender)
	}

	view := struct {
		Month  string
		Year   int
		Days   []dayView
		Legend string
	}{
		Month:  MonthName(c.Days[0].Date.Month()),
		Year:   c.Days[0].Date.Year(),
		Legend: fmt.Sprintf("%s посещено  %s пропущено  %s предстоит", statusSymbols[models.LessonVisited], statusSymbols[models.LessonMissed], statusSymbols[models.LessonPlanned]),
	}

	for _, d := range c.Days {
		if d.Date.IsZero() {
			return "", fmt.Errorf("%w: day without date", ErrRender)
		}
		day := dayView{Date: d.Date.Format(dayLayout)}
		for _, l := range d.Lessons {
			symbol := StatusSymbol(l.Status)
			if symbol == "" {
				return "", fmt.Errorf("%w: unknown lesson status %q", ErrRender, l.Status)
			}
			day.Lessons = append(day.Lessons, lessonView{
				Symbol:  symbol,
				Start:   l.Start.Format(timeLayout),
				Finish:  l.Finish.Format(timeLayout),
				Subject: l.Name,
				Theme:   l.Theme,
				Base:    l.Base,
			})
		}
		view.Days = append(view.Days, day)
	}

	return r.execute("calendar", view)
}

type questionView struct {
	Number  int
	Subject string
	Preview string
	Teacher string
	Date    string
}

// QuestionList страница вопросов со сквозной нумерацией.
func (r *Renderer) QuestionList(page *models.QuestionPage, pageSize int) (string, error) {
	if page == nil {
		return "", fmt.Errorf("%w: empty question page", ErrRender)
	}

	view := struct {
		Page      int
		MaxPage   int
		Questions []questionView
	}{
		Page:    page.Page,
		MaxPage: models.MaxPage(page.Total, pageSize),
	}
	offset := (page.Page - 1) * pageSize
	for i, q := range page.Questions {
		view.Questions = append(view.Questions, questionView{
			Number:  offset + i + 1,
			Subject: truncate(q.Subject, maxSubjectRunes),
			Preview: truncate(q.Preview, maxPreviewRunes),
			Teacher: q.Teacher,
			Date:    q.Date.Format(stampLayout),
		})
	}

	out, err := r.execute("question_list", view)
	if err != nil {
		return "", err
	}
	if !fits(out) {
		return "", fmt.Errorf("%w: question list exceeds %d characters", ErrRender, MaxMessageLength)
	}
	return out, nil
}

type commentView struct {
	Mine    bool
	Message string
}

// Thread вопрос и окно сообщений для страницы page. viewer логин читающего ученика.
// Если окно не помещается в одно сообщение, старые сообщения окна отбрасываются.
func (r *Renderer) Thread(q models.Question, comments []models.Comment, page, pageSize int, viewer string) (string, error) {
	from, to := models.CommentsWindow(len(comments), page, pageSize)

	view := struct {
		Subject  string
		Teacher  string
		Date     string
		Shown    bool
		From     int
		To       int
		Total    int
		Comments []commentView
	}{
		Subject: truncate(q.Subject, maxSubjectRunes),
		Teacher: q.Teacher,
		Date:    q.Date.Format(stampLayout),
		Shown:   to > from,
		From:    from + 1,
		To:      to,
		Total:   len(comments),
	}
	for _, c := range comments[from:to] {
		view.Comments = append(view.Comments, commentView{Mine: c.Author == viewer, Message: truncate(c.Message, maxCommentRunes)})
	}

	for {
		out, err := r.execute("single_question", view)
		if err != nil {
			return "", err
		}
		if fits(out) {
			return out, nil
		}
		if len(view.Comments) <= 1 {
			return "", fmt.Errorf("%w: thread exceeds %d characters", ErrRender, MaxMessageLength)
		}
		view.Comments = view.Comments[1:]
		view.From++
	}
}

// LoginSuccess подтверждение входа.
func LoginSuccess(name string) string {
	return fmt.Sprintf("Пользователь \"%s\" успешно залогинился", name)
}

// LoginFailure ошибка входа с подробностями.
func LoginFailure(detail string) string {
	return "Ошибка входа. \n" + detail
}
