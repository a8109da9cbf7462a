// Package services holds the business logic between HTTP controllers
// and the Mongo repositories: order intake and lifecycle, Paystack
// payment initiation, accounts, and the cached catalogue.
package services

import "errors"

// ErrValidation marks input that fails domain rules. Controllers map
// it to 422 Unprocessable Entity.
var ErrValidation = errors.New("validation failed")

// ErrInvalidCredentials is returned on a failed login attempt.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrGateway marks an upstream payment gateway failure. Controllers
// map it to 502 Bad Gateway.
var ErrGateway = errors.New("payment gateway error")
