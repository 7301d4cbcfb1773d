package services

import "net/http"

// Kode error engine
const (
	CodeValidation          = "validation_error"
	CodeTableNotFound       = "table_not_found"
	CodeReservationNotFound = "reservation_not_found"
	CodeSlotUnavailable     = "slot_unavailable"
	CodeDoubleBooking       = "double_booking"
	CodeOutsideHours        = "outside_operating_hours"
	CodeCapExceeded         = "reservation_cap_exceeded"
	CodeTooSoon             = "too_soon_after_prior_reservation"
	CodeInvalidTransition   = "invalid_status_transition"
	CodeUnknown             = "unknown"
)

// ReservationError adalah error bertipe dengan pesan stabil, supaya layer
// presentasi bisa menampilkan feedback yang konsisten per jenis kegagalan.
type ReservationError struct {
	Code    string
	Message string
}

func (e *ReservationError) Error() string {
	return e.Message
}

// Is mencocokkan berdasarkan Code, sehingga errors.Is bekerja untuk instance
// hasil Validation() maupun sentinel di bawah.
func (e *ReservationError) Is(target error) bool {
	t, ok := target.(*ReservationError)
	return ok && t.Code == e.Code
}

var (
	ErrValidation          = &ReservationError{CodeValidation, "invalid input"}
	ErrTableNotFound       = &ReservationError{CodeTableNotFound, "table not found or under maintenance"}
	ErrReservationNotFound = &ReservationError{CodeReservationNotFound, "reservation not found"}
	ErrSlotUnavailable     = &ReservationError{CodeSlotUnavailable, "the requested slot is not open for this table"}
	ErrDoubleBooking       = &ReservationError{CodeDoubleBooking, "the requested slot is already booked"}
	ErrOutsideHours        = &ReservationError{CodeOutsideHours, "the requested time is outside operating hours"}
	ErrCapExceeded         = &ReservationError{CodeCapExceeded, "reservation limit reached for this user"}
	ErrTooSoon             = &ReservationError{CodeTooSoon, "too soon after another reservation for this user"}
	ErrInvalidTransition   = &ReservationError{CodeInvalidTransition, "invalid reservation status transition"}
	ErrUnknown             = &ReservationError{CodeUnknown, "booking outcome unknown, re-check reservation status before retrying"}
)

// Validation membungkus detail input yang salah dengan kode validation_error.
func Validation(message string) *ReservationError {
	return &ReservationError{CodeValidation, message}
}

// StatusFor memetakan error engine ke kode HTTP untuk controller.
func StatusFor(err error) int {
	re, ok := err.(*ReservationError)
	if !ok {
		return http.StatusInternalServerError
	}
	switch re.Code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeTableNotFound, CodeReservationNotFound:
		return http.StatusNotFound
	case CodeSlotUnavailable, CodeDoubleBooking, CodeInvalidTransition:
		return http.StatusConflict
	case CodeOutsideHours, CodeCapExceeded, CodeTooSoon:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
