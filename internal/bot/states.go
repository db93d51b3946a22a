package bot

import (
	"eduappbot/internal/models"
	"eduappbot/internal/ui"
)

// StateID идентификатор экрана диалога.
type StateID string

const (
	StateGuest          StateID = "guest"
	StateMain           StateID = "main"
	StateCalendar       StateID = "calendar"
	StateCalendarPeriod StateID = "calendar_period"
	StateAuthLogin      StateID = "auth_login"
	StateAuthPassword   StateID = "auth_password"
	StateQuestions      StateID = "questions"
	StateQuestionNumber StateID = "question_number"
	StateQuestionChat   StateID = "question_chat"
)

// HandlerID действие, которое выполняется перед переходом.
type HandlerID string

const (
	handlerHelp          HandlerID = "help"
	handlerProfile       HandlerID = "profile"
	handlerCalendarMonth HandlerID = "calendar_month"
	handlerQuestionsPage HandlerID = "questions_page"
	handlerOlderComments HandlerID = "older_comments"
	handlerNewerComments HandlerID = "newer_comments"
	handlerAsk           HandlerID = "ask"
)

// Action результат нажатия кнопки: либо переход в Enter, либо запуск Handler,
// который сам выбирает следующее состояние.
type Action struct {
	Enter   StateID
	Handler HandlerID
}

func toState(state StateID) Action { return Action{Enter: state} }
func withHandler(handler HandlerID) Action { return Action{Handler: handler} }

var transitionTable = map[StateID]map[string]Action{
	StateGuest: {
		ui.ButtonAuth: toState(StateAuthLogin),
	},
	StateMain: {
		ui.ButtonCalendar:  toState(StateCalendar),
		ui.ButtonQuestions: toState(StateQuestions),
		ui.ButtonProfile:   withHandler(handlerProfile),
		ui.ButtonAuth:      toState(StateAuthLogin),
		ui.ButtonHelp:      withHandler(handlerHelp),
	},
	StateCalendar: {
		ui.ButtonMonthCurrent:  withHandler(handlerCalendarMonth),
		ui.ButtonPeriod:        toState(StateCalendarPeriod),
		ui.ButtonMonthPrevious: withHandler(handlerCalendarMonth),
		ui.ButtonMonthNext:     withHandler(handlerCalendarMonth),
		ui.ButtonBack:          toState(StateMain),
	},
	StateCalendarPeriod: {
		ui.ButtonBack: toState(StateCalendar),
	},
	StateAuthLogin: {
		ui.ButtonBack: toState(StateMain),
	},
	StateAuthPassword: {
		ui.ButtonBack: toState(StateMain),
	},
	StateQuestions: {
		ui.ButtonOpenQuestion: toState(StateQuestionNumber),
		ui.ButtonNextFive:     withHandler(handlerQuestionsPage),
		ui.ButtonPrevFive:     withHandler(handlerQuestionsPage),
		ui.ButtonBack:         toState(StateMain),
	},
	StateQuestionNumber: {
		ui.ButtonBack: toState(StateQuestions),
	},
	StateQuestionChat: {
		ui.ButtonAsk:           withHandler(handlerAsk),
		ui.ButtonOlderComments: withHandler(handlerOlderComments),
		ui.ButtonNewerComments: withHandler(handlerNewerComments),
		ui.ButtonBack:          toState(StateQuestions),
	},
}

// transitions все возможные переходы состояния, включая условные кнопки.
func transitions(state StateID) map[string]Action {
	return transitionTable[state]
}

// resolve ищет переход по точному тексту кнопки среди кнопок последнего
// отрисованного экрана, иначе условная кнопка сработала бы после ее исчезновения.
func resolve(state StateID, rendered []string, text string) (Action, bool) {
	action, ok := screen{state: state, buttons: rendered}.actions()[text]
	return action, ok
}

// isInputState состояния, где нераспознанный текст разбирается как ввод.
func isInputState(state StateID) bool {
	switch state {
	case StateCalendarPeriod, StateAuthLogin, StateAuthPassword, StateQuestionNumber:
		return true
	}
	return false
}

func knownState(state StateID) bool {
	_, ok := transitionTable[state]
	return ok
}

type screen struct {
	state   StateID
	prompt  string
	buttons []string
}

// actions переходы, доступные с отрисованного экрана.
func (s screen) actions() map[string]Action {
	all := transitions(s.state)
	out := make(map[string]Action, len(s.buttons))
	for _, label := range s.buttons {
		if a, ok := all[label]; ok {
			out[label] = a
		}
	}
	return out
}

// staticScreen экраны, которые не зависят от данных EduApp.
func staticScreen(state StateID) screen {
	switch state {
	case StateMain:
		return screen{state: state, prompt: ui.PromptMain, buttons: []string{
			ui.ButtonCalendar, ui.ButtonQuestions, ui.ButtonProfile, ui.ButtonAuth, ui.ButtonHelp,
		}}
	case StateCalendar:
		return screen{state: state, prompt: ui.PromptCalendar, buttons: []string{
			ui.ButtonMonthCurrent, ui.ButtonPeriod, ui.ButtonMonthPrevious, ui.ButtonMonthNext, ui.ButtonBack,
		}}
	case StateCalendarPeriod:
		return screen{state: state, prompt: ui.PromptCalendarPeriod, buttons: []string{ui.ButtonBack}}
	case StateAuthLogin:
		return screen{state: state, prompt: ui.PromptLogin, buttons: []string{ui.ButtonBack}}
	case StateAuthPassword:
		return screen{state: state, prompt: ui.PromptPassword, buttons: []string{ui.ButtonBack}}
	case StateQuestionNumber:
		return screen{state: state, prompt: ui.PromptQuestionNumber, buttons: []string{ui.ButtonBack}}
	default:
		return screen{state: StateGuest, prompt: ui.PromptGuest, buttons: []string{ui.ButtonAuth}}
	}
}

// questionsScreen список вопросов: "следующие" только если дальше есть вопросы,
// "предыдущие" начиная со второй страницы.
func questionsScreen(prompt string, page, total int) screen {
	buttons := []string{ui.ButtonOpenQuestion}
	if page*models.QuestionsPageSize < total {
		buttons = append(buttons, ui.ButtonNextFive)
	}
	if page >= 2 {
		buttons = append(buttons, ui.ButtonPrevFive)
	}
	buttons = append(buttons, ui.ButtonBack)
	return screen{state: StateQuestions, prompt: prompt, buttons: buttons}
}

// questionChatScreen обсуждение: страница 1 самые новые сообщения,
// "предыдущие" листают к более старым.
func questionChatScreen(prompt string, comments, page int) screen {
	buttons := []string{ui.ButtonAsk}
	if comments > models.CommentsPageSize && page < models.MaxPage(comments, models.CommentsPageSize) {
		buttons = append(buttons, ui.ButtonOlderComments)
	}
	if page > 1 {
		buttons = append(buttons, ui.ButtonNewerComments)
	}
	buttons = append(buttons, ui.ButtonBack)
	return screen{state: StateQuestionChat, prompt: prompt, buttons: buttons}
}
