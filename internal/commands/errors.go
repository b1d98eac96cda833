package commands

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to console mutation failures. Hosts branch on these
// rather than on message strings when deciding what to show the operator.
const (
	commandValidationCode   = "ADMIN_COMMAND_VALIDATION_FAILED"
	commandContextCanceled  = "ADMIN_COMMAND_CONTEXT_CANCELED"
	commandContextTimeout   = "ADMIN_COMMAND_CONTEXT_TIMEOUT"
	commandContextErrorCode = "ADMIN_COMMAND_CONTEXT_ERROR"
	commandExecuteFailed    = "ADMIN_COMMAND_EXECUTION_FAILED"
)

// wrapValidationError categorises a message Validate failure. Errors already
// carrying a category (gateway field errors, for example) pass through so the
// original taxonomy survives the handler.
func wrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "mutation rejected by validation").
		WithTextCode(commandValidationCode)
}

// wrapContextError distinguishes operator cancellation from the handler
// timeout so telemetry can report them separately.
func wrapContextError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	switch err {
	case context.Canceled:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "mutation cancelled").
			WithTextCode(commandContextCanceled)
	case context.DeadlineExceeded:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "mutation deadline exceeded").
			WithTextCode(commandContextTimeout)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "mutation context error").
			WithTextCode(commandContextErrorCode)
	}
}

func wrapExecuteError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "mutation failed").
		WithTextCode(commandExecuteFailed)
}
