package eduapp

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	loginPath     = "/rest-auth/login/"
	accountPath   = "/account/"
	calendarPath  = "/teaching_situation/classes_users/extended/"
	questionsPath = "/discussions/"

	// CookieName cookie с JWT, которой EduApp аутентифицирует запросы
	CookieName = "eduapp_jwt"

	calendarCourseUsage = "M,D,B,S"
	calendarLimit       = 100
	apiDateLayout       = "2006-01-02"
)

func commentsPath(discussionID int64) string {
	return fmt.Sprintf("%s%d/comments/", questionsPath, discussionID)
}

func calendarQuery(start, end time.Time, userID int64) url.Values {
	q := url.Values{}
	q.Set("classes__datetime_begin__gte", start.Format(apiDateLayout))
	q.Set("classes__datetime_begin__lte", end.Format(apiDateLayout))
	q.Set("user_id", strconv.FormatInt(userID, 10))
	q.Set("orderBy", "classes__datetime_begin")
	q.Set("classes__course__usage__in", calendarCourseUsage)
	q.Set("page", "1")
	q.Set("limit", strconv.Itoa(calendarLimit))
	return q
}

// DiscussionURL ссылка на обсуждение на сайте EduApp.
func DiscussionURL(siteURL string, discussionID int64) string {
	return fmt.Sprintf("%s/pupil/discussions/%d/", strings.TrimSuffix(siteURL, "/"), discussionID)
}
