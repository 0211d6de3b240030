package homework

import (
	"encoding/json"
	"fmt"
	"math"
)

// Status is a review state reported by the homework API.
type Status string

const (
	StatusApproved  Status = "approved"
	StatusReviewing Status = "reviewing"
	StatusRejected  Status = "rejected"
)

const (
	keyHomeworks   = "homeworks"
	keyCurrentDate = "current_date"
	fieldName      = "homework_name"
	fieldStatus    = "status"
)

// Verdicts maps a review status to the text shown to the student.
// Treat it as read-only once handed to the poller.
type Verdicts map[Status]string

// DefaultVerdicts returns a fresh copy of the standard verdict texts.
func DefaultVerdicts() Verdicts {
	return Verdicts{
		StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
		StatusReviewing: "Работа взята на проверку ревьюером.",
		StatusRejected:  "Работа проверена: у ревьюера есть замечания.",
	}
}

// CheckResponse validates the shape of a decoded API answer and returns its
// homework list. The input is never modified.
func CheckResponse(response any) ([]any, error) {
	body, err := asObject(response)
	if err != nil {
		return nil, err
	}

	rawHomeworks, ok := body[keyHomeworks]
	if !ok {
		return nil, &MissingKeyError{Key: keyHomeworks}
	}
	rawDate, ok := body[keyCurrentDate]
	if !ok {
		return nil, &MissingKeyError{Key: keyCurrentDate}
	}

	homeworks, ok := rawHomeworks.([]any)
	if !ok {
		return nil, &ResponseTypeError{Field: keyHomeworks, Want: "an array", Got: rawHomeworks}
	}
	if _, err := toUnix(rawDate); err != nil {
		return nil, err
	}

	return homeworks, nil
}

// CurrentDate extracts the next cursor value from a decoded API answer.
func CurrentDate(response any) (int64, error) {
	body, err := asObject(response)
	if err != nil {
		return 0, err
	}
	rawDate, ok := body[keyCurrentDate]
	if !ok {
		return 0, &MissingKeyError{Key: keyCurrentDate}
	}
	return toUnix(rawDate)
}

// ParseStatus renders the status change notice for a single homework record.
func (v Verdicts) ParseStatus(record any) (string, error) {
	hw, ok := record.(map[string]any)
	if !ok {
		return "", &ResponseTypeError{Field: "homework", Want: "an object", Got: record}
	}

	name, ok := hw[fieldName].(string)
	if !ok {
		return "", &MissingFieldError{Field: fieldName}
	}

	rawStatus, ok := hw[fieldStatus]
	if !ok {
		return "", &MissingFieldError{Field: fieldStatus}
	}
	status, ok := rawStatus.(string)
	if !ok {
		return "", &UnknownStatusError{Status: fmt.Sprint(rawStatus)}
	}

	verdict, ok := v[Status(status)]
	if !ok {
		return "", &UnknownStatusError{Status: status}
	}

	return fmt.Sprintf("Изменился статус проверки работы \"%s\". %s", name, verdict), nil
}

// Name returns homework_name of a record, or an empty string.
func Name(record any) string {
	hw, _ := record.(map[string]any)
	name, _ := hw[fieldName].(string)
	return name
}

// StatusOf returns the status of a record, or an empty string.
func StatusOf(record any) Status {
	hw, _ := record.(map[string]any)
	status, _ := hw[fieldStatus].(string)
	return Status(status)
}

func asObject(response any) (map[string]any, error) {
	body, ok := response.(map[string]any)
	if !ok {
		return nil, &ResponseTypeError{Field: "response", Want: "an object", Got: response}
	}
	return body, nil
}

func toUnix(raw any) (int64, error) {
	switch v := raw.(type) {
	case json.Number:
		if ts, err := v.Int64(); err == nil {
			return ts, nil
		}
	case float64:
		if v == math.Trunc(v) {
			return int64(v), nil
		}
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	}
	return 0, &ResponseTypeError{Field: keyCurrentDate, Want: "an integer", Got: raw}
}
