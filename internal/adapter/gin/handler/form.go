package handler

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"phoenix-web/internal/domain/user"
)

// UserForm represents the submitted fields of the create and edit forms.
type UserForm struct {
	FirstName string `form:"first_name" binding:"required,max=100"`
	LastName  string `form:"last_name" binding:"required,max=100"`
	Gender    string `form:"gender" binding:"required,oneof=male female"`
	Birthdate string `form:"birthdate" binding:"required,datetime=2006-01-02"`
}

// toRecord builds an immutable domain record from the submitted fields.
// The id is supplied by the caller: 0 for create, the path id for update.
func (f UserForm) toRecord(id int64) (user.User, error) {
	birthdate, err := time.Parse("2006-01-02", f.Birthdate)
	if err != nil {
		return user.User{}, err
	}

	return user.User{
		ID:        id,
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Gender:    f.Gender,
		Birthdate: birthdate,
	}, nil
}

var fieldLabels = map[string]string{
	"FirstName": "First name",
	"LastName":  "Last name",
	"Gender":    "Gender",
	"Birthdate": "Birth date",
}

var fieldKeys = map[string]string{
	"FirstName": "first_name",
	"LastName":  "last_name",
	"Gender":    "gender",
	"Birthdate": "birthdate",
}

// validationMessages converts validator.ValidationErrors into per-field
// human-readable messages keyed by form field name.
func validationMessages(err error) map[string]string {
	messages := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		messages["form"] = "Invalid form submission"
		return messages
	}

	for _, e := range validationErrors {
		label := fieldLabels[e.Field()]
		if label == "" {
			label = e.Field()
		}
		key := fieldKeys[e.Field()]
		if key == "" {
			key = e.Field()
		}

		switch e.Tag() {
		case "required":
			messages[key] = fmt.Sprintf("%s cannot be blank", label)
		case "max":
			messages[key] = fmt.Sprintf("%s must be at most %s characters", label, e.Param())
		case "datetime":
			messages[key] = fmt.Sprintf("%s must be a valid date", label)
		default:
			messages[key] = fmt.Sprintf("%s is invalid", label)
		}
	}

	return messages
}
