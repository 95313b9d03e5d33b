package calendar

import (
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"
)

// IsNotFound reports whether err is the Calendar API telling us the event no
// longer exists. 410 Gone is included: the API returns it for events that
// were deleted rather than never created.
func IsNotFound(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone
}
