package domain

import (
	"fmt"

	appErrors "azsearch/internal/errors"
)

func invalidWorkItemError(reason string, err error) error {
	return appErrors.New(appErrors.CodeInvalidWorkItem, reason, err)
}

func invalidQueryError(reason string) error {
	return appErrors.New(appErrors.CodeInvalidQuery, reason, nil)
}

func invalidProjectError(id string, err error) error {
	return appErrors.New(appErrors.CodeInvalidProject, fmt.Sprintf("invalid project id: %q", id), err)
}
