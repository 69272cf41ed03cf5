package mailer

import (
	"github.com/floripafacil/backend/internal/domain"
	"github.com/floripafacil/backend/pkg/logger"
)

// DevMailer logs instead of sending. Default when no mail provider is
// configured.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) SendReservationReceived(res *domain.Reservation) error {
	logger.Info("[DEV MAIL] reservation received",
		"to", res.CustomerEmail,
		"customer", res.CustomerName,
		"package", res.PackageTitle,
		"travel_date", res.TravelDate,
	)
	return nil
}

func (d *DevMailer) SendReservationConfirmed(res *domain.Reservation) error {
	logger.Info("[DEV MAIL] reservation confirmed",
		"to", res.CustomerEmail,
		"customer", res.CustomerName,
		"package", res.PackageTitle,
		"travel_date", res.TravelDate,
	)
	return nil
}
