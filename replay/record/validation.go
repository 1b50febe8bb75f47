package record

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	// ErrHeader is returned when the first row is not the expected header.
	ErrHeader = errors.New("unexpected header")
	// ErrFieldCount is returned when a row has fewer than three or more than four fields.
	ErrFieldCount = errors.New("wrong number of fields")
	// ErrFieldRequired is returned when a required field is blank.
	ErrFieldRequired = errors.New("field is required")
	// ErrFieldNotNumber is returned when an id field is not an unsigned integer.
	ErrFieldNotNumber = errors.New("field must be an unsigned integer")
	// ErrFieldNotDecimal is returned when the amount is not a decimal number.
	ErrFieldNotDecimal = errors.New("field must be a decimal number")
	// ErrFieldOutOfRange is returned when an id does not fit its width.
	ErrFieldOutOfRange = errors.New("field out of range")
	// ErrAmountRequired is returned for a deposit or withdrawal without amount.
	ErrAmountRequired = errors.New("amount is required for deposits and withdrawals")
	// ErrValidatorInit is returned when custom validator registration fails.
	ErrValidatorInit = errors.New("validator initialization failed")
)

// row is the trimmed, not yet typed form of one CSV record.
type row struct {
	Type   string `validate:"required"`
	Client string `validate:"required,number"`
	Tx     string `validate:"required,number"`
	Amount string `validate:"decimal_amount"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
	errValidate  error
)

func initValidator() (*validator.Validate, error) {
	vld := validator.New(validator.WithRequiredStructEnabled())

	if err := vld.RegisterValidation("decimal_amount", func(fl validator.FieldLevel) bool {
		str := fl.Field().String()
		if str == "" {
			return true
		}

		_, err := decimal.NewFromString(str)

		return err == nil
	}); err != nil {
		return nil, fmt.Errorf("%w: failed to register 'decimal_amount': %w", ErrValidatorInit, err)
	}

	return vld, nil
}

func getValidator() (*validator.Validate, error) {
	validateOnce.Do(func() {
		validate, errValidate = initValidator()
	})

	return validate, errValidate
}

var fieldNames = map[string]string{
	"Type":   "type",
	"Client": "client",
	"Tx":     "tx",
	"Amount": "amount",
}

var validationErrorFormatters = map[string]func(field string) error{
	"required": func(field string) error {
		return fmt.Errorf("%w: '%s'", ErrFieldRequired, field)
	},
	"number": func(field string) error {
		return fmt.Errorf("%w: '%s'", ErrFieldNotNumber, field)
	},
	"decimal_amount": func(field string) error {
		return fmt.Errorf("%w: '%s'", ErrFieldNotDecimal, field)
	},
}

func validateRow(r row) error {
	vld, err := getValidator()
	if err != nil {
		return err
	}

	if err := vld.Struct(r); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			fe := validationErrors[0]

			if formatter, ok := validationErrorFormatters[fe.Tag()]; ok {
				return formatter(fieldNames[fe.Field()])
			}

			return fmt.Errorf("'%s' failed '%s'", fieldNames[fe.Field()], fe.Tag())
		}

		return err
	}

	return nil
}
