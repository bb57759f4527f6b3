package domain

import (
	"regexp"
	"time"
)

// Customer представляет клиента CRM.
type Customer struct {
	ID string
	// Name — отображаемое имя клиента.
	Name string
	// Email уникален в пределах всего хранилища.
	Email string
	// Phone опционален; допустимые форматы проверяет ValidateInvariants.
	Phone     string
	CreatedAt time.Time
}

// phonePattern принимает "+1234567890" или "123-456-7890" (последняя группа 4-6 цифр).
var phonePattern = regexp.MustCompile(`^(\+[0-9]{7,15}|[0-9]{3}-[0-9]{3}-[0-9]{4,6})$`)

// ValidateInvariants проверяет обязательные поля и формат телефона.
// Уникальность email проверяется на границе хранилища.
func (c *Customer) ValidateInvariants() []error {
	var errs []error

	if c.Name == "" {
		errs = append(errs, ErrNameRequired)
	}
	if c.Email == "" {
		errs = append(errs, ErrEmailRequired)
	}
	if c.Phone != "" && !phonePattern.MatchString(c.Phone) {
		errs = append(errs, ErrPhoneInvalid)
	}

	return errs
}
