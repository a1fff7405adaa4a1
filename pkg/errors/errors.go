package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNavigation represents page navigation and element wait errors
	ErrorTypeNavigation ErrorType = "navigation"
	// ErrorTypeAuthentication represents a session that has been logged out or challenged
	ErrorTypeAuthentication ErrorType = "authentication"
	// ErrorTypeExtraction represents field or record extraction errors
	ErrorTypeExtraction ErrorType = "extraction"
	// ErrorTypeQuota represents a discovery shortfall against the requested quota
	ErrorTypeQuota ErrorType = "quota"
	// ErrorTypeCache represents cache-related errors
	ErrorTypeCache ErrorType = "cache"
	// ErrorTypePublisher represents publisher-related errors
	ErrorTypePublisher ErrorType = "publisher"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// CrawlError represents a crawl-specific error
type CrawlError struct {
	Type       ErrorType
	Identifier string
	Message    string
	Err        error
	Time       time.Time
}

// Error implements the error interface
func (e *CrawlError) Error() string {
	if e.Identifier == "" {
		if e.Err != nil {
			return fmt.Sprintf("[%s] %s - %v", e.Type, e.Message, e.Err)
		}
		return fmt.Sprintf("[%s] %s", e.Type, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Identifier, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Identifier, e.Message)
}

// Unwrap returns the underlying error
func (e *CrawlError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is worth retrying within the
// current step. Authentication and configuration problems are not; they
// need the operator or the caller.
func (e *CrawlError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNavigation:
		return true
	case ErrorTypeExtraction:
		return true
	default:
		return false
	}
}

// New creates a new CrawlError
func New(errType ErrorType, identifier, message string, err error) *CrawlError {
	return &CrawlError{
		Type:       errType,
		Identifier: identifier,
		Message:    message,
		Err:        err,
		Time:       time.Now(),
	}
}

// NewNavigation creates a new navigation error
func NewNavigation(identifier, message string, err error) *CrawlError {
	return New(ErrorTypeNavigation, identifier, message, err)
}

// NewAuthentication creates a new authentication error
func NewAuthentication(message string, err error) *CrawlError {
	return New(ErrorTypeAuthentication, "", message, err)
}

// NewExtraction creates a new extraction error
func NewExtraction(identifier, message string, err error) *CrawlError {
	return New(ErrorTypeExtraction, identifier, message, err)
}

// NewQuota creates a new quota shortfall warning
func NewQuota(message string) *CrawlError {
	return New(ErrorTypeQuota, "", message, nil)
}

// NewCache creates a new cache error
func NewCache(identifier, message string, err error) *CrawlError {
	return New(ErrorTypeCache, identifier, message, err)
}

// NewPublisher creates a new publisher error
func NewPublisher(identifier, message string, err error) *CrawlError {
	return New(ErrorTypePublisher, identifier, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *CrawlError {
	return New(ErrorTypeConfiguration, "", message, err)
}
