package core

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found or inactive")
	ErrEmployeeExists   = errors.New("employee email already exists")
	ErrInvalidEmployee  = errors.New("invalid employee details")
)
