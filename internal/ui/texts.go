package ui

// Подписи кнопок
const (
	ButtonAuth          = "Авторизация"
	ButtonCalendar      = "Календарь"
	ButtonQuestions     = "Вопросы"
	ButtonProfile       = "Профиль"
	ButtonHelp          = "Что умеет этот бот?"
	ButtonBack          = "Назад"
	ButtonMonthCurrent  = "Расписание на текущий месяц"
	ButtonPeriod        = "Расписание по указанному периоду"
	ButtonMonthPrevious = "Расписание на предыдущий месяц"
	ButtonMonthNext     = "Расписание на следующий месяц"
	ButtonOpenQuestion  = "Открыть вопрос"
	ButtonNextFive      = "Отобразить следующие пять вопросов"
	ButtonPrevFive      = "Отобразить предыдущие пять вопросов"
	ButtonAsk           = "Написать сообщение"
	ButtonOlderComments = "Отобразить предыдущие 10 сообщений"
	ButtonNewerComments = "Отобразить следующие 10 сообщений"
)

// Тексты экранов и ответов
const (
	PromptGuest          = "Вы находитесь в гостевом меню...\nАвторизуйтесь чтобы получить доступ к функциям бота"
	PromptMain           = "Вы находитесь в главном меню..."
	PromptCalendar       = "Вы находитесь в меню календаря..."
	PromptCalendarPeriod = "Пожалуйста, введите период в формате DD.MM-DD.MM"
	PromptLogin          = "Вы перешли в меню авторизации...\n\nВведите логин:"
	PromptPassword       = "Введите пароль"
	PromptQuestionNumber = "Введите номер вопроса, который хотите открыть"

	MsgUnknownCommand    = "Команда не распознана"
	MsgLoginEcho         = "Вы ввели логин %s"
	MsgAuthSucceeded     = "Авторизация прошла успешно"
	MsgAuthRequired      = "Сначала авторизуйтесь"
	MsgNoLessons         = "На этом отрезке времени нет занятий"
	MsgCalendarMalformed = "Не удалось разобрать расписание"
	MsgProfileFailed     = "Не удалось получить данные профиля"
	MsgQuestionRange     = "Введите число от 1 до %d или \"Назад\" если хотите выйти"
	MsgAskLink           = "Вы можете написать вопрос по этой ссылке: %s"
	MsgInternalError     = "Произошла внутренняя ошибка. Попробуйте еще раз"
	MsgRateLimited       = "Слишком много сообщений. Подождите немного"

	ErrPeriodFormat = "Неверный формат периода. Введите период в формате DD.MM-DD.MM"
	ErrPeriodDay    = "Такой даты не существует. Проверьте дни и месяцы периода"
	ErrPeriodOrder  = "Дата начала периода не может быть позже даты окончания"
)

const HelpText = "Этот бот разработан для более удобного взаимодействия учеников с сервисами ШП." +
	"\n\nС помощью него вы можете за пару кликов: " +
	"\n\n ⦿ Узнать расписание занятий " +
	"\n\n ⦿ Просмотреть свой профиль " +
	"\n\n ⦿ Задать вопрос преподавателю" +
	"\n\n И многое другое"

