package eduapp

import (
	"fmt"
	"strings"
	"time"

	"eduappbot/internal/models"
)

const noTeacher = "Без отвечающего преподавателя"

type loginResponse struct {
	Token string `json:"token"`
}

type accountResponse struct {
	ID            *int64 `json:"id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Patronymic    string `json:"patronymic"`
	ContactNumber string `json:"contact_number"`
	Email         string `json:"email"`
	Timezone      string `json:"timezone"`
}

func (a *accountResponse) toProfile() (*models.Profile, error) {
	if a.ID == nil {
		return nil, malformed("account without id", nil)
	}
	if a.FirstName == "" && a.LastName == "" {
		return nil, malformed("account without name", nil)
	}
	return &models.Profile{
		ID:         *a.ID,
		FirstName:  a.FirstName,
		LastName:   a.LastName,
		Patronymic: a.Patronymic,
		Phone:      a.ContactNumber,
		Email:      a.Email,
		Timezone:   a.Timezone,
	}, nil
}

type classesUsersResponse struct {
	Results *[]classesUser `json:"results"`
}

type classesUser struct {
	Classes *struct {
		DateOf        string `json:"date_of"`
		DatetimeBegin string `json:"datetime_begin"`
		DatetimeEnd   string `json:"datetime_end"`
		Course        struct {
			SimplestName string `json:"simplest_name"`
			DiaryType    string `json:"diary_type"`
		} `json:"course"`
		ClassesLessons []struct {
			Lesson struct {
				Name string `json:"name"`
			} `json:"lesson"`
		} `json:"classes_lessons"`
	} `json:"classes"`
	PupilAttendances []struct {
		IsBegun bool   `json:"is_begun"`
		Status  string `json:"status"`
	} `json:"pupil_attendances"`
}

// parseCalendar группирует занятия по дням, сохраняя порядок ответа API.
func parseCalendar(resp *classesUsersResponse, start, end time.Time) (*models.Calendar, error) {
	if resp.Results == nil {
		return nil, malformed("calendar without results", nil)
	}

	cal := &models.Calendar{Start: start, End: end}
	dayIndex := make(map[string]int)

	for i, item := range *resp.Results {
		if item.Classes == nil {
			return nil, malformed(fmt.Sprintf("lesson %d without classes", i), nil)
		}
		date, err := time.Parse(apiDateLayout, item.Classes.DateOf)
		if err != nil {
			return nil, malformed("lesson date", err)
		}
		begin, err := parseAPITime(item.Classes.DatetimeBegin)
		if err != nil {
			return nil, malformed("lesson begin", err)
		}
		finish, err := parseAPITime(item.Classes.DatetimeEnd)
		if err != nil {
			return nil, malformed("lesson end", err)
		}

		lesson := models.Lesson{
			Name:   item.Classes.Course.SimplestName,
			Start:  begin,
			Finish: finish,
			Base:   item.Classes.Course.DiaryType == "D",
			Status: attendanceStatus(item),
		}
		if len(item.Classes.ClassesLessons) > 0 {
			lesson.Theme = item.Classes.ClassesLessons[0].Lesson.Name
		}

		idx, ok := dayIndex[item.Classes.DateOf]
		if !ok {
			idx = len(cal.Days)
			dayIndex[item.Classes.DateOf] = idx
			cal.Days = append(cal.Days, models.CalendarDay{Date: date})
		}
		cal.Days[idx].Lessons = append(cal.Days[idx].Lessons, lesson)
	}

	return cal, nil
}

func attendanceStatus(item classesUser) string {
	if len(item.PupilAttendances) == 0 {
		return models.LessonPlanned
	}
	att := item.PupilAttendances[0]
	switch {
	case !att.IsBegun:
		return models.LessonPlanned
	case att.Status == "н":
		return models.LessonMissed
	default:
		return models.LessonVisited
	}
}

// parseAPITime разбирает время EduApp, оставляя его в часовом поясе ответа.
func parseAPITime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", value)
}

type discussionsResponse struct {
	Results *[]discussion `json:"results"`
}

type discussion struct {
	ID              *int64 `json:"id"`
	CommentedAt     string `json:"commented_at"`
	RelatedText     string `json:"related_text"`
	Preview         string `json:"preview"`
	DiscussionUsers []struct {
		IsClient bool `json:"is_client"`
		User     *struct {
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
		} `json:"user"`
	} `json:"discussion_users"`
}

// pageQuestions вырезает страницу size вопросов. Пустой список на первой странице не ошибка.
func pageQuestions(resp *discussionsResponse, page, size int) (*models.QuestionPage, error) {
	if resp.Results == nil {
		return nil, malformed("discussions without results", nil)
	}
	if page < 1 || size < 1 {
		return nil, ErrPageOutOfRange
	}

	all := *resp.Results
	from := (page - 1) * size
	if from >= len(all) && !(page == 1 && len(all) == 0) {
		return nil, fmt.Errorf("%w: page %d of %d questions", ErrPageOutOfRange, page, len(all))
	}
	to := from + size
	if to > len(all) {
		to = len(all)
	}

	result := &models.QuestionPage{Page: page, Total: len(all)}
	for _, d := range all[from:to] {
		q, err := d.toQuestion()
		if err != nil {
			return nil, err
		}
		result.Questions = append(result.Questions, q)
	}
	return result, nil
}

func (d *discussion) toQuestion() (models.Question, error) {
	if d.ID == nil {
		return models.Question{}, malformed("discussion without id", nil)
	}
	date, err := parseAPITime(d.CommentedAt)
	if err != nil {
		return models.Question{}, malformed("discussion date", err)
	}
	teacher, err := d.teacher()
	if err != nil {
		return models.Question{}, err
	}
	return models.Question{
		ID:      *d.ID,
		Date:    date,
		Subject: d.RelatedText,
		Preview: d.Preview,
		Teacher: teacher,
	}, nil
}

func (d *discussion) teacher() (string, error) {
	for _, u := range d.DiscussionUsers {
		if u.IsClient {
			continue
		}
		if u.User == nil {
			return "", malformed("teacher without user section", nil)
		}
		return strings.TrimSpace(u.User.FirstName + " " + u.User.LastName), nil
	}
	return noTeacher, nil
}

type commentsResponse struct {
	Results *[]struct {
		Author *struct {
			Username string `json:"username"`
		} `json:"author"`
		Message string `json:"message"`
	} `json:"results"`
}

func parseComments(resp *commentsResponse) ([]models.Comment, error) {
	if resp.Results == nil {
		return nil, malformed("comments without results", nil)
	}
	comments := make([]models.Comment, 0, len(*resp.Results))
	for i, c := range *resp.Results {
		if c.Author == nil {
			return nil, malformed(fmt.Sprintf("comment %d without author", i), nil)
		}
		comments = append(comments, models.Comment{Author: c.Author.Username, Message: c.Message})
	}
	return comments, nil
}
