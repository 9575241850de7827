package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/harentsoaR/appointment-intake/internal/models"
	"github.com/harentsoaR/appointment-intake/internal/services"
)

// ReceiveData books an appointment from the query string of an external
// link and answers with an HTML page.
func (h *Handler) ReceiveData(c *gin.Context) {
	in, err := services.AppointmentFromQuery(c.Request.URL.Query())
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		c.HTML(http.StatusBadRequest, "appointment_error.html", gin.H{"Errors": verr.Fields})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	apt, err := h.Appointments.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	log.Info().Int("appointmentId", apt.ID).Msg("appointment received from link")

	h.Backup.Notify(*apt)
	c.HTML(http.StatusOK, "appointment_received.html", apt)
}
