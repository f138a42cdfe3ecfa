package service

import (
	"foodstack-pos/internal/apperr"
	"foodstack-pos/internal/repository"
	"foodstack-pos/pkg/validator"

	"github.com/shopspring/decimal"
)

// Sentinel errors returned by the services. Each carries its apperr kind.
var (
	ErrSessionAlreadyOpen = apperr.Conflict("a cash session is already open")
	ErrSessionNotOpen     = apperr.Conflict("cash session is not open")
	ErrSessionNotFound    = apperr.NotFound("cash session")
	ErrInvalidCredentials = apperr.Auth("invalid credentials")
	ErrOperatorNotFound   = apperr.Auth("operator not found")
	ErrCPFTaken           = apperr.Conflict("CPF already registered")
)

// storeErr classifies a repository failure: missing rows become NotFound for entity,
// everything else means the store could not complete the request.
func storeErr(entity, op string, err error) error {
	if repository.IsNotFound(err) {
		return apperr.NotFound(entity)
	}
	return apperr.Unavailable(op, err)
}

// parseMoney reads a decimal amount typed by an operator. Both "12.50" and "12,50" are accepted.
func parseMoney(field, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, apperr.Validation("%s is required", field)
	}
	d, err := decimal.NewFromString(normalizeDecimal(raw))
	if err != nil {
		return decimal.Zero, apperr.Validation("%s must be a number", field)
	}
	if !validator.FitsMoney(d) {
		return decimal.Zero, errMoneyRange(field)
	}
	return d, nil
}

func errMoneyRange(field string) error {
	return apperr.Validation("%s must have at most 2 decimal places and fewer than 11 integer digits", field)
}

func normalizeDecimal(raw string) string {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		switch c := raw[i]; c {
		case ' ':
		case ',':
			out = append(out, '.')
		default:
			out = append(out, c)
		}
	}
	return string(out)
}
