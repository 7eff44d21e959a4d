package awssend

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"

	"github.com/bjaus/fanout"
)

// Error codes that mean the caller lacks permission on the destination.
var permissionCodes = map[string]bool{
	"AccessDenied":                true,
	"AccessDeniedException":       true,
	"AuthorizationError":          true,
	"AuthorizationErrorException": true,
	"UnauthorizedOperation":       true,
	"KMSAccessDenied":             true,
}

// Error codes that mean the destination does not exist or was addressed
// wrongly.
var invalidCodes = map[string]bool{
	"ResourceNotFoundException":                   true,
	"NotFound":                                    true,
	"NotFoundException":                           true,
	"InvalidParameter":                            true,
	"InvalidParameterException":                   true,
	"InvalidParameterValue":                       true,
	"InvalidAddress":                              true,
	"AWS.SimpleQueueService.NonExistentQueue":     true,
	"QueueDoesNotExist":                           true,
	"AWS.SimpleQueueService.QueueDeletedRecently": true,
}

// noCredentialsCode is returned by the SDK credential chain when no
// provider yields credentials.
const noCredentialsCode = "NoCredentialProviders"

// Classify converts an SDK error into a *fanout.SendError. Cancellation and
// deadline errors are returned unwrapped so callers can match them with
// errors.Is; errors that did not come from the SDK are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var ae awserr.Error
	if !errors.As(err, &ae) {
		return err
	}

	code := ae.Code()
	se := &fanout.SendError{Code: code, Message: ae.Message(), Err: err}

	switch {
	case code == request.CanceledErrorCode:
		if orig := ae.OrigErr(); orig != nil {
			return fmt.Errorf("%s: %w", ae.Message(), orig)
		}
		return err
	case code == noCredentialsCode:
		se.Kind = fanout.ErrNoCredentials
	case permissionCodes[code]:
		se.Kind = fanout.ErrPermissionDenied
	case invalidCodes[code]:
		se.Kind = fanout.ErrInvalidDestination
	default:
		se.Kind = fanout.ErrProviderError
	}
	return se
}
