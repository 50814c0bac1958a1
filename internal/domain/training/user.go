package training

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Column widths of the user and catalog tables, in characters.
const (
	MaxUserIDLength = 64
	MaxEmailLength  = 320
	MaxTextLength   = 255
)

type User struct {
	ID           string
	Name         string
	Email        string
	Position     string
	Department   string
	BusinessUnit string
}

func NewUser(id, name, email, position, department, businessUnit string) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, ErrMissingUserID
	}
	if err := checkLength("user id", id, MaxUserIDLength); err != nil {
		return User{}, err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return User{}, ErrInvalidEmail
		}
	}

	u := User{
		ID:           id,
		Name:         collapseSpaces(name),
		Email:        email,
		Position:     collapseSpaces(position),
		Department:   collapseSpaces(department),
		BusinessUnit: collapseSpaces(businessUnit),
	}

	if err := checkLength("email", u.Email, MaxEmailLength); err != nil {
		return User{}, err
	}
	for _, f := range []struct{ label, value string }{
		{"name", u.Name},
		{"position", u.Position},
		{"department", u.Department},
		{"business unit", u.BusinessUnit},
	} {
		if err := checkLength(f.label, f.value, MaxTextLength); err != nil {
			return User{}, err
		}
	}

	return u, nil
}

func checkLength(label, value string, max int) error {
	if n := utf8.RuneCountInString(value); n > max {
		return fmt.Errorf("%w: %s has %d characters, max %d", ErrValueTooLong, label, n, max)
	}
	return nil
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
