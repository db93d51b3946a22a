package ui

import (
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"eduappbot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New()
	require.NoError(t, err)
	return r
}

func TestLoginMessages(t *testing.T) {
	assert.Equal(t, `Пользователь "username" успешно залогинился`, LoginSuccess("username"))
	assert.Equal(t, "Ошибка входа. \nerror_message", LoginFailure("error_message"))
}

func TestMonthNameAndSymbols(t *testing.T) {
	assert.Equal(t, "Январь", MonthName(time.January))
	assert.Equal(t, "Декабрь", MonthName(time.December))
	assert.Equal(t, "", MonthName(time.Month(13)))

	assert.Equal(t, "🟢", StatusSymbol(models.LessonVisited))
	assert.Equal(t, "🔴", StatusSymbol(models.LessonMissed))
	assert.Equal(t, "⚪", StatusSymbol(models.LessonPlanned))
	assert.Equal(t, "", StatusSymbol("unknown"))
}

func TestProfile(t *testing.T) {
	r := newRenderer(t)

	out, err := r.Profile(&models.Profile{
		FirstName: "Алиса",
		LastName:  "Иванова",
		Email:     "alice@example.test",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "<b>Фамилия:</b> Иванова")
	assert.Contains(t, out, "<b>Имя:</b> Алиса")
	assert.Contains(t, out, "alice@example.test")
	assert.NotContains(t, out, "Телефон")

	_, err = r.Profile(nil)
	assert.ErrorIs(t, err, ErrRender)
}

func TestProfileEscapesHTML(t *testing.T) {
	r := newRenderer(t)
	out, err := r.Profile(&models.Profile{FirstName: "<script>", LastName: "X"})
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestCalendar(t *testing.T) {
	r := newRenderer(t)
	msk := time.FixedZone("MSK", 3*60*60)
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	cal := &models.Calendar{Days: []models.CalendarDay{{
		Date: day,
		Lessons: []models.Lesson{
			{
				Name:   "Python",
				Theme:  "Циклы",
				Start:  time.Date(2024, 1, 10, 10, 0, 0, 0, msk),
				Finish: time.Date(2024, 1, 10, 11, 30, 0, 0, msk),
				Base:   true,
				Status: models.LessonMissed,
			},
			{
				Name:   "Алгоритмы",
				Start:  time.Date(2024, 1, 10, 12, 0, 0, 0, msk),
				Finish: time.Date(2024, 1, 10, 13, 0, 0, 0, msk),
				Status: models.LessonPlanned,
			},
		},
	}}}

	out, err := r.Calendar(cal)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<b>Январь 2024</b>"))
	assert.Contains(t, out, "<b>10.01</b>")
	assert.Contains(t, out, "🔴 10:00-11:30 Python (основной курс)")
	assert.Contains(t, out, "<i>Циклы</i>")
	assert.Contains(t, out, "⚪ 12:00-13:00 Алгоритмы")
}

func TestCalendarMalformed(t *testing.T) {
	r := newRenderer(t)

	_, err := r.Calendar(&models.Calendar{})
	assert.ErrorIs(t, err, ErrRender)

	_, err = r.Calendar(&models.Calendar{Days: []models.CalendarDay{{
		Date:    time.Now(),
		Lessons: []models.Lesson{{Name: "Python", Status: "???"}},
	}}})
	assert.ErrorIs(t, err, ErrRender)

	_, err = r.Calendar(&models.Calendar{Days: []models.CalendarDay{{
		Lessons: []models.Lesson{{Name: "Python", Status: models.LessonVisited}},
	}}})
	assert.ErrorIs(t, err, ErrRender)
}

func TestQuestionList(t *testing.T) {
	r := newRenderer(t)
	page := &models.QuestionPage{Page: 2, Total: 12}
	for i := 0; i < 5; i++ {
		page.Questions = append(page.Questions, models.Question{
			ID:      int64(i),
			Subject: fmt.Sprintf("Тема %d", i),
			Preview: "Вопрос",
			Teacher: "Борис Смирнов",
			Date:    time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		})
	}

	out, err := r.QuestionList(page, models.QuestionsPageSize)
	require.NoError(t, err)
	assert.Contains(t, out, "страница 2 из 3")
	assert.Contains(t, out, "<b>6. Тема 0</b>")
	assert.Contains(t, out, "<b>10. Тема 4</b>")
	assert.Contains(t, out, "01.03.2024 09:00, Борис Смирнов")

	out, err = r.QuestionList(&models.QuestionPage{Page: 1}, models.QuestionsPageSize)
	require.NoError(t, err)
	assert.Equal(t, "У вас пока нет вопросов", out)
}

func TestThread(t *testing.T) {
	r := newRenderer(t)
	q := models.Question{Subject: "Циклы", Teacher: "Борис Смирнов", Date: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}

	var comments []models.Comment
	for i := 1; i <= 25; i++ {
		author := "teacher"
		if i%2 == 1 {
			author = "alice"
		}
		comments = append(comments, models.Comment{Author: author, Message: fmt.Sprintf("msg-%02d", i)})
	}

	out, err := r.Thread(q, comments, 1, models.CommentsPageSize, "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Сообщения 16-25 из 25")
	assert.Contains(t, out, "<b>Вы:</b> msg-25")
	assert.Contains(t, out, "<b>Преподаватель:</b> msg-16")
	assert.NotContains(t, out, "msg-15")

	out, err = r.Thread(q, comments, 2, models.CommentsPageSize, "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Сообщения 6-15 из 25")
	assert.Contains(t, out, "msg-06")
	assert.NotContains(t, out, "msg-16")

	out, err = r.Thread(q, comments, 99, models.CommentsPageSize, "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Сообщения 1-5 из 25")

	out, err = r.Thread(q, nil, 1, models.CommentsPageSize, "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "В обсуждении пока нет сообщений")
}

func TestThreadFitsTelegramLimit(t *testing.T) {
	r := newRenderer(t)
	q := models.Question{Subject: "Циклы", Teacher: "Борис Смирнов", Date: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}

	var comments []models.Comment
	for i := 1; i <= 25; i++ {
		comments = append(comments, models.Comment{Author: "alice", Message: strings.Repeat("ж", 480) + fmt.Sprintf("#%02d", i)})
	}

	out, err := r.Thread(q, comments, 1, models.CommentsPageSize, "alice")
	require.NoError(t, err)
	assert.LessOrEqual(t, utf8.RuneCountInString(out), MaxMessageLength)
	assert.Contains(t, out, "#25")
	assert.Contains(t, out, "-25 из 25")
	assert.NotContains(t, out, "#16")
	assert.NotContains(t, out, "Сообщения 16-25")

	t.Run("LongMessageTruncated", func(t *testing.T) {
		long := []models.Comment{{Author: "teacher", Message: strings.Repeat("я", 5000)}}
		out, err := r.Thread(q, long, 1, models.CommentsPageSize, "alice")
		require.NoError(t, err)
		assert.LessOrEqual(t, utf8.RuneCountInString(out), MaxMessageLength)
		assert.Contains(t, out, "Сообщения 1-1 из 1")
		assert.Contains(t, out, "…")
	})
}

func TestQuestionListFitsTelegramLimit(t *testing.T) {
	r := newRenderer(t)
	page := &models.QuestionPage{Page: 1, Total: 5}
	for i := 0; i < 5; i++ {
		page.Questions = append(page.Questions, models.Question{
			ID:      int64(i),
			Subject: strings.Repeat("т", 1000),
			Preview: strings.Repeat("в", 2000),
			Teacher: "Борис Смирнов",
			Date:    time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		})
	}

	out, err := r.QuestionList(page, models.QuestionsPageSize)
	require.NoError(t, err)
	assert.LessOrEqual(t, utf8.RuneCountInString(out), MaxMessageLength)
	assert.Contains(t, out, "<b>5. ")
	assert.Contains(t, out, "…")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "абв", truncate("абв", 3))
	assert.Equal(t, "аб…", truncate("абвг", 3))
	assert.Equal(t, 10, utf8.RuneCountInString(truncate(strings.Repeat("ж", 50), 10)))
}
