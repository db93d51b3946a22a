package models

import "time"

// Session хранит состояние диалога одного чата: активный экран,
// отрисованные кнопки и курсоры пагинации.
type Session struct {
	ChatID       int64     `json:"chat_id"`
	State        string    `json:"state"`
	Buttons      []string  `json:"buttons,omitempty"`
	PendingLogin string    `json:"pending_login,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`

	QuestionsPage   int `json:"questions_page"`
	QuestionsTotal  int `json:"questions_total"`
	QuestionsOnPage int `json:"questions_on_page"`

	QuestionIndex int   `json:"question_index"`
	DiscussionID  int64 `json:"discussion_id"`
	CommentsPage  int   `json:"comments_page"`
}

// NewSession возвращает сессию с курсорами на первых страницах.
func NewSession(chatID int64) *Session {
	return &Session{
		ChatID:        chatID,
		QuestionsPage: 1,
		CommentsPage:  1,
	}
}

// QuestionsMaxPage количество страниц списка вопросов, не меньше одной.
func (s *Session) QuestionsMaxPage() int {
	return MaxPage(s.QuestionsTotal, QuestionsPageSize)
}

// MaxPage количество страниц для total элементов, не меньше одной.
func MaxPage(total, size int) int {
	if total <= 0 || size <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// ClampPage приводит номер страницы к диапазону [1, maxPage].
func ClampPage(page, maxPage int) int {
	if maxPage < 1 {
		maxPage = 1
	}
	if page < 1 {
		return 1
	}
	if page > maxPage {
		return maxPage
	}
	return page
}

// CommentsWindow границы [from, to) окна из size последних сообщений для страницы page.
// Первая страница содержит самые новые сообщения, page приводится к допустимому диапазону.
func CommentsWindow(total, page, size int) (from, to int) {
	if total <= 0 || size <= 0 {
		return 0, 0
	}
	page = ClampPage(page, MaxPage(total, size))
	to = total - (page-1)*size
	from = to - size
	if from < 0 {
		from = 0
	}
	return from, to
}

// Credentials учетные данные EduApp, привязанные к чату.
// Хранятся только в памяти процесса.
type Credentials struct {
	Username string
	Password string
	Token    string
	FullName string
}

// Valid сообщает, есть ли с чем повторно авторизоваться.
func (c *Credentials) Valid() bool {
	return c != nil && c.Username != "" && c.Password != ""
}
