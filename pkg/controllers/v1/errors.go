package v1

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ecole-gestion/backend/pkg/httperrors"
	"github.com/ecole-gestion/backend/pkg/recovery"
)

// status returns the appropriate HTTP status for an error
var status = httperrors.Status

var (
	errRecoveryStatusInvalid = fmt.Errorf("the status filter must be one of: %s", strings.Join(recovery.Statuses(), ", "))
	errExpenseStatusInvalid  = errors.New("the status filter must be one of draft, pending, approved, rejected, paid")
	errNoFilePost            = errors.New("you must send a file to this endpoint")
)
