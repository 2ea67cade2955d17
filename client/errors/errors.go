package errors

import (
	"errors"
	"fmt"
)

type Status string

// The supplied address is not a well formed 32 byte account address
const InvalidAddress Status = "InvalidAddress"

// Required configuration (signer key, signer address, node url) is missing or malformed
const InvalidConfig Status = "InvalidConfig"

// The module does not resolve to a package directory with a Move.toml
const ModuleNotFound Status = "ModuleNotFound"

// The compiler reported a diagnostic
const BuildFailed Status = "BuildFailed"

// The compiled package lacks well formed metadata or bytecode
const MetadataExtractionFailed Status = "MetadataExtractionFailed"

// The assembled payload exceeds the chain's transaction size limit
const PayloadTooLarge Status = "PayloadTooLarge"

// The signer's account could not be fetched
const AccountFetchFailed Status = "AccountFetchFailed"

// The ledger info (chain id) could not be fetched
const ChainIdFetchFailed Status = "ChainIdFetchFailed"

// The node refused the transaction, e.g. bad sequence number or insufficient gas
const SubmissionRejected Status = "SubmissionRejected"

// Finality was not observed in time -- the transaction may still land
const ConfirmationTimeout Status = "ConfirmationTimeout"

// The transaction was committed but aborted in the VM
const TransactionFailed Status = "TransactionFailed"

// Category groups statuses by which step failed
type Category string

const (
	CategoryInput   Category = "input"
	CategoryBuild   Category = "build"
	CategoryNetwork Category = "network"
)

func (s Status) Category() Category {
	switch s {
	case InvalidAddress, InvalidConfig, ModuleNotFound:
		return CategoryInput
	case BuildFailed, MetadataExtractionFailed, PayloadTooLarge:
		return CategoryBuild
	default:
		return CategoryNetwork
	}
}

type Error struct {
	Status  Status
	Message string
	// underlying cause, if one was wrapped with %w
	Err error
}

var _ error = &Error{}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Errorf(status Status, format string, args ...interface{}) error {
	err := fmt.Errorf(format, args...)
	return &Error{
		Status:  status,
		Message: err.Error(),
		Err:     errors.Unwrap(err),
	}
}

func InvalidAddressf(format string, args ...interface{}) error {
	return Errorf(InvalidAddress, format, args...)
}

func InvalidConfigf(format string, args ...interface{}) error {
	return Errorf(InvalidConfig, format, args...)
}

func ModuleNotFoundf(format string, args ...interface{}) error {
	return Errorf(ModuleNotFound, format, args...)
}

func BuildFailedf(format string, args ...interface{}) error {
	return Errorf(BuildFailed, format, args...)
}

func MetadataExtractionFailedf(format string, args ...interface{}) error {
	return Errorf(MetadataExtractionFailed, format, args...)
}

func PayloadTooLargef(format string, args ...interface{}) error {
	return Errorf(PayloadTooLarge, format, args...)
}

// StatusOf returns the status of the first *Error found in the chain of err.
func StatusOf(err error) (Status, bool) {
	var xerr *Error
	if errors.As(err, &xerr) {
		return xerr.Status, true
	}
	return "", false
}

// Is reports whether err carries the given status anywhere in its chain.
func Is(err error, status Status) bool {
	got, ok := StatusOf(err)
	return ok && got == status
}
