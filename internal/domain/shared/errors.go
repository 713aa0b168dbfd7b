package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidQuantity      = NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")
	ErrNoEligibleWarehouse  = NewDomainError("NO_ELIGIBLE_WAREHOUSE", "No warehouse could be resolved for the item")
	ErrMissingReturnLinkage = NewDomainError("MISSING_RETURN_LINKAGE", "Return line is missing a reference to the original document line")
	ErrWarehouseProvision   = NewDomainError("WAREHOUSE_PROVISION_ERROR", "Warehouse could not be provisioned")
	ErrInvalidOwnerCode     = NewDomainError("INVALID_OWNER_CODE", "Counterparty name yields an empty owner code")
	ErrInvalidInput         = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUpstreamUnavailable  = NewDomainError("UPSTREAM_UNAVAILABLE", "The ERP backend did not respond")
)
