package models

const ParseModeHTML = "HTML"

const (
	// DefaultSiteURL адрес сайта EduApp для ссылок пользователю
	DefaultSiteURL = "https://my.informatics.ru"

	// DefaultHTTPTimeout таймаут запросов к API EduApp в секундах
	DefaultHTTPTimeout = 15

	// DefaultAPIRateLimitRPS ограничение исходящих запросов к API EduApp
	DefaultAPIRateLimitRPS   = 5
	DefaultAPIRateLimitBurst = 10

	// DefaultSessionTTL время жизни сессии чата в секундах
	DefaultSessionTTL = 24 * 60 * 60 // 24 часа

	// DefaultUpdateTimeout время на обработку одного обновления в секундах
	DefaultUpdateTimeout = 30

	// QuestionsPageSize количество вопросов на одной странице
	QuestionsPageSize = 5

	// CommentsPageSize количество сообщений обсуждения на одной странице
	CommentsPageSize = 10

	// RateLimitMessages количество сообщений в окне
	RateLimitMessages = 20

	// RateLimitWindow окно ограничения частоты сообщений
	RateLimitWindow = 60 // 1 минута в секундах
)

// Статусы посещения занятия в том виде, в каком их показывает расписание
const (
	LessonVisited = "Посещено"
	LessonMissed  = "Пропущено"
	LessonPlanned = "Предстоит"
)
