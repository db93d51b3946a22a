package eduapp

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrCaptchaRequired    = errors.New("eduapp: captcha required")
	ErrInvalidCredentials = errors.New("eduapp: invalid credentials")
	ErrUnauthorized       = errors.New("eduapp: unauthorized")
	ErrUnknown            = errors.New("eduapp: unknown error")
	ErrMalformedResponse  = errors.New("eduapp: malformed response")
	ErrPageOutOfRange     = errors.New("eduapp: page out of range")
)

// StatusError ответ API с неожиданным кодом.
type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("eduapp: %s returned http %d", e.Endpoint, e.Code)
}

// Unwrap позволяет сравнивать StatusError с ErrUnauthorized и ErrUnknown через errors.Is.
func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden {
		return ErrUnauthorized
	}
	return ErrUnknown
}

func malformed(what string, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, what, err)
	}
	return fmt.Errorf("%w: %s", ErrMalformedResponse, what)
}

// UserMessage текст ошибки для пользователя чата.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCaptchaRequired):
		return "EduApp требует пройти капчу. Войдите через сайт и попробуйте снова позже"
	case errors.Is(err, ErrInvalidCredentials):
		return "Неверный логин или пароль"
	case errors.Is(err, ErrUnauthorized):
		return "Сессия EduApp истекла. Авторизуйтесь заново"
	case errors.Is(err, ErrMalformedResponse):
		return "Произошла ошибка распознавания данных из ЕА"
	case errors.Is(err, ErrPageOutOfRange):
		return "Некорректный номер страницы"
	default:
		return "Пришёл некорректный ответ от сервера"
	}
}
