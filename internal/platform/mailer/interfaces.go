package mailer

import "github.com/floripafacil/backend/internal/domain"

type Service interface {
	SendReservationReceived(res *domain.Reservation) error
	SendReservationConfirmed(res *domain.Reservation) error
}
