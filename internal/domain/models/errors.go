package models

import "errors"

var (
	// ErrEmptySeries is returned when a projection is requested over a
	// series with no points at all. Short series degrade instead.
	ErrEmptySeries = errors.New("empty time series")

	// ErrUnsupportedMethod is returned for a ForecastMethod value no
	// strategy is registered for.
	ErrUnsupportedMethod = errors.New("unsupported forecast method")

	// ErrForecastNotFound is returned when an accuracy update targets a
	// forecast id that does not exist for the tenant.
	ErrForecastNotFound = errors.New("forecast not found")

	// ErrInvalidRequest is returned when a ForecastRequest fails
	// validation.
	ErrInvalidRequest = errors.New("invalid forecast request")
)
