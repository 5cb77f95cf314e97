package models

import (
	"regexp"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

type SearchRequest struct {
	From    string `query:"from" json:"from"`
	To      string `query:"to" json:"to"`
	Date    string `query:"date" json:"date"`
	Details bool   `query:"details" json:"details,omitempty"`
}

func (r *SearchRequest) Validate() error {
	r.From = strings.TrimSpace(r.From)
	r.To = strings.TrimSpace(r.To)
	if r.From == "" {
		return ErrMissingOrigin
	}
	if r.To == "" {
		return ErrMissingDestination
	}
	if r.Date == "" {
		return ErrMissingDate
	}
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

type TransitRequest struct {
	City string `query:"city" json:"city"`
	Date string `query:"date" json:"date"`
}

func (r *TransitRequest) Validate(today time.Time) error {
	r.City = strings.TrimSpace(r.City)
	if r.City == "" {
		return ErrMissingCity
	}
	if r.Date == "" {
		r.Date = today.Format(DateLayout)
	}
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

type ReportRequest struct {
	Type      string `query:"type" json:"type,omitempty"`
	StartDate string `query:"start" json:"startDate"`
	EndDate   string `query:"end" json:"endDate"`
}

const (
	ReportTypePopularity = "popularity"
	ReportTypeRevenue    = "revenue"
)

func (r *ReportRequest) Validate() error {
	if r.StartDate == "" || r.EndDate == "" {
		return ErrMissingDateRange
	}
	start, err := time.Parse(DateLayout, r.StartDate)
	if err != nil {
		return ErrInvalidDate
	}
	end, err := time.Parse(DateLayout, r.EndDate)
	if err != nil {
		return ErrInvalidDate
	}
	if end.Before(start) {
		return ErrInvalidDateRange
	}
	return nil
}

func (r *ReportRequest) ValidateExport() error {
	if r.Type != ReportTypePopularity && r.Type != ReportTypeRevenue {
		return ErrInvalidReportType
	}
	return r.Validate()
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	if r.Email == "" {
		return ErrMissingEmail
	}
	if r.Password == "" {
		return ErrMissingPassword
	}
	return nil
}

type RegisterRequest struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword,omitempty"`
}

var (
	emailPattern    = regexp.MustCompile(`^[\w.-]+@([\w-]+\.)+[\w-]{2,4}$`)
	fullNamePattern = regexp.MustCompile(`^[a-zA-Zа-яА-Я\s]+$`)
)

// Validate applies the registration form rules in the order the form reports them.
func (r *RegisterRequest) Validate() error {
	if strings.TrimSpace(r.FullName) == "" {
		return ErrMissingFullName
	}
	if !fullNamePattern.MatchString(r.FullName) {
		return ErrInvalidFullName
	}
	if strings.TrimSpace(r.Email) == "" {
		return ErrMissingEmail
	}
	if !emailPattern.MatchString(r.Email) {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(r.Password) == "" {
		return ErrMissingPassword
	}
	if len([]rune(r.Password)) < 6 {
		return ErrPasswordTooShort
	}
	if r.Password != r.ConfirmPassword {
		return ErrPasswordMismatch
	}
	return nil
}

type UserInfo struct {
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

type ReturnRequest struct {
	Confirm bool `json:"confirm"`
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrMissingOrigin      ValidationError = "from is required"
	ErrMissingDestination ValidationError = "to is required"
	ErrMissingDate        ValidationError = "date is required"
	ErrInvalidDate        ValidationError = "date must be formatted as YYYY-MM-DD"
	ErrMissingCity        ValidationError = "city is required"
	ErrMissingDateRange   ValidationError = "start and end are required"
	ErrInvalidDateRange   ValidationError = "end must not be before start"
	ErrInvalidReportType  ValidationError = "type must be popularity or revenue"
	ErrMissingFullName    ValidationError = "full name is required"
	ErrInvalidFullName    ValidationError = "full name may contain only letters and spaces"
	ErrMissingEmail       ValidationError = "email is required"
	ErrInvalidEmail       ValidationError = "email is not valid"
	ErrMissingPassword    ValidationError = "password is required"
	ErrPasswordTooShort   ValidationError = "password must be at least 6 characters"
	ErrPasswordMismatch   ValidationError = "passwords do not match"
	ErrMissingTrainNumber ValidationError = "train number is required"
	ErrInvalidFrequency   ValidationError = "frequency type is not supported"
	ErrInvalidDayParity   ValidationError = "day parity must be Парні or Непарні"
	ErrInvalidDaysOfWeek  ValidationError = "days of week must be a comma separated list of 1..7"
)
