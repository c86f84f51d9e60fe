package models

import (
	"errors"
)

var (
	ErrGeneral           = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound  = errors.New("there is no")
	ErrReferenceNotFound = errors.New("there is no resource for the ID you specified in the reference to another resource")
)

// Budget errors
var (
	ErrBudgetAllocationNegative = errors.New("the allocated amount of a budget must not be negative")
	ErrBudgetMonthInvalid       = errors.New("the month must be between 1 and 12")
	ErrBudgetYearInvalid        = errors.New("the year must be between 1900 and 9999")
	ErrBudgetPeriodNotUnique    = errors.New("a budget with this name already exists for this year and month")
)

// Expense errors
var (
	ErrExpenseAmountNotPositive  = errors.New("the amount of an expense must be positive")
	ErrExpenseStatusInvalid      = errors.New("the expense status must be one of draft, pending, approved, rejected, paid")
	ErrExpenseCategoryNotUnique  = errors.New("the expense category name must be unique")
	ErrPaymentModeInvalid        = errors.New("the payment mode must be one of cash, check, transfer, mobile_money, card")
	ErrExpenseCategoryHasExpense = errors.New("the expense category is still used by expenses")
)

// Fee configuration errors
var (
	ErrFeeConfigurationNotUnique = errors.New("a fee configuration with this name already exists for the school year")
	ErrTrancheAmountNotPositive  = errors.New("the amount of a tranche must be positive")
	ErrTrancheDueDateNotSet      = errors.New("the due date of a tranche must be set")
)

// Student and payment errors
var (
	ErrStudentMatriculeNotUnique   = errors.New("the matricule must be unique")
	ErrStudentMatriculeNotSet      = errors.New("the matricule of a student must be set")
	ErrStudentEmailInvalid         = errors.New("the email of the student is not a valid address")
	ErrStudentGuardianEmailInvalid = errors.New("the email of the guardian is not a valid address")
	ErrPaymentAmountNotPositive    = errors.New("the amount of a payment must be positive")
	ErrPaymentReferenceNotUnique   = errors.New("the payment reference must be unique")
	ErrPaymentFieldImmutable       = errors.New("only the note, tranche and payment mode of a payment can be changed")
)
