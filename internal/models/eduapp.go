package models

import "time"

type Profile struct {
	ID         int64  `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Patronymic string `json:"patronymic"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Timezone   string `json:"timezone"`
}

// FullName фамилия и имя, как их показывает EduApp.
func (p *Profile) FullName() string {
	if p == nil {
		return ""
	}
	switch {
	case p.LastName == "":
		return p.FirstName
	case p.FirstName == "":
		return p.LastName
	}
	return p.LastName + " " + p.FirstName
}

type Lesson struct {
	Name   string
	Theme  string
	Start  time.Time
	Finish time.Time
	Base   bool
	Status string
}

type CalendarDay struct {
	Date    time.Time
	Lessons []Lesson
}

// Calendar занятия в запрошенном окне, сгруппированные по дням в порядке API.
type Calendar struct {
	Start time.Time
	End   time.Time
	Days  []CalendarDay
}

// Empty сообщает, что в окне нет ни одного занятия.
func (c *Calendar) Empty() bool {
	if c == nil {
		return true
	}
	for _, d := range c.Days {
		if len(d.Lessons) > 0 {
			return false
		}
	}
	return true
}

type Question struct {
	ID      int64
	Date    time.Time
	Subject string
	Preview string
	Teacher string
}

// QuestionPage одна страница списка обсуждений.
type QuestionPage struct {
	Page      int
	Total     int
	Questions []Question
}

type Comment struct {
	Author  string
	Message string
}
