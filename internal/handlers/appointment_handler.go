package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/harentsoaR/appointment-intake/internal/services"
)

// --- CREATE APPOINTMENT (public) ---
func (h *Handler) CreateAppointment(c *gin.Context) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	in, err := services.AppointmentFromJSON(raw)
	if err != nil {
		respondError(c, err)
		return
	}

	apt, err := h.Appointments.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	log.Info().Int("appointmentId", apt.ID).Msg("appointment created")

	h.Backup.Notify(*apt)
	c.JSON(http.StatusCreated, apt)
}

// --- LIST APPOINTMENTS (admin) ---
func (h *Handler) ListAppointments(c *gin.Context) {
	appointments, err := h.Appointments.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appointments)
}

// --- GET APPOINTMENT (admin) ---
func (h *Handler) GetAppointment(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	apt, err := h.Appointments.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apt)
}

// --- UPDATE APPOINTMENT STATUS (admin) ---
func (h *Handler) UpdateAppointment(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	update, err := services.ParseStatusUpdate(raw)
	if err != nil {
		respondError(c, err)
		return
	}

	apt, err := h.Appointments.Update(c.Request.Context(), id, update)
	if err != nil {
		respondError(c, err)
		return
	}
	log.Info().Int("appointmentId", apt.ID).Str("status", apt.Status).Msg("appointment updated")

	h.Backup.Notify(*apt)
	c.JSON(http.StatusOK, apt)
}

// --- DELETE APPOINTMENT (admin) ---
func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	removed, err := h.Appointments.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	log.Info().Int("appointmentId", removed.ID).Msg("appointment deleted")

	// the backup keeps the last state of the removed record
	h.Backup.Notify(*removed)

	c.JSON(http.StatusOK, gin.H{"message": "Appointment deleted", "appointment": removed})
}

// --- LIST BACKED-UP APPOINTMENTS (admin) ---
func (h *Handler) ListBackups(c *gin.Context) {
	records, err := h.Backup.Records(c.Request.Context())
	if err != nil {
		log.Warn().Err(err).Msg("reading appointment backup failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Backup unavailable"})
		return
	}
	c.JSON(http.StatusOK, records)
}

// appointmentID parses the :id path parameter, answering 400 when it is not an integer.
func appointmentID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment ID"})
		return 0, false
	}
	return id, true
}
