package httpapi

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/contactgain/contactgain/internal/common"
	"github.com/contactgain/contactgain/internal/lifecycle"
	"github.com/contactgain/contactgain/internal/server/models"
	"github.com/gin-gonic/gin"
)

// clientIdentifier returns the opaque per-browser identifier the caller
// presents. It is never authenticated; an empty value simply means the
// caller has no creator privileges and no session listing.
func clientIdentifier(c *gin.Context) string {
	return c.GetHeader(common.ClientIdentifierHeaderName)
}

type createSessionRequest struct {
	GroupName       string `json:"group_name"`
	DurationMinutes int    `json:"duration_minutes"`
}

type submitContactRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type sessionResponse struct {
	ID                  string    `json:"id"`
	ShortID             string    `json:"short_id"`
	GroupName           string    `json:"group_name"`
	CreatedAt           time.Time `json:"created_at"`
	DurationMinutes     int       `json:"duration_minutes"`
	ExpiresAt           time.Time `json:"expires_at"`
	DeletionScheduledAt time.Time `json:"deletion_scheduled_at"`
	DownloadCount       int64     `json:"download_count"`
	FileSequenceNumber  int64     `json:"file_sequence_number"`
	ContactCount        int64     `json:"contact_count"`
}

type contactResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

func toSessionResponse(s *models.Session) sessionResponse {
	return sessionResponse{
		ID:                  s.ID,
		ShortID:             s.ShortID,
		GroupName:           s.GroupName,
		CreatedAt:           s.CreatedAt,
		DurationMinutes:     s.DurationMinutes,
		ExpiresAt:           s.ExpiresAt,
		DeletionScheduledAt: s.DeletionScheduledAt,
		DownloadCount:       s.DownloadCount,
		FileSequenceNumber:  s.FileSequenceNumber,
		ContactCount:        s.ContactCount,
	}
}

func toContactResponse(c *models.Contact) contactResponse {
	return contactResponse{
		ID:          c.ID,
		Name:        c.Name,
		Phone:       c.Phone,
		Email:       c.Email,
		SubmittedAt: c.SubmittedAt,
	}
}

// writeError maps each error kind of the taxonomy to a distinct status and
// code so the presentation layer can show the right message.
func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	case errors.Is(err, common.ErrorWindowClosed):
		c.JSON(http.StatusGone, gin.H{"error": "window_closed"})
	case errors.Is(err, common.ErrorInvalidPhone):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_phone"})
	case errors.Is(err, common.ErrorValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error"})
	case errors.Is(err, common.ErrorDuplicateName):
		c.JSON(http.StatusConflict, gin.H{"error": "duplicate_name"})
	case errors.Is(err, common.ErrorStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store_unavailable"})
	default:
		s.logger.Error(c.Request.Context(), "request failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
	}
}

func (s *Server) createSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	session, err := s.sessions.Create(c.Request.Context(), req.GroupName, req.DurationMinutes, clientIdentifier(c))
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toSessionResponse(session))
}

func (s *Server) listSessions(c *gin.Context) {
	list, err := s.sessions.List(c.Request.Context(), clientIdentifier(c))
	if err != nil {
		s.writeError(c, err)
		return
	}

	out := make([]sessionResponse, 0, len(list))
	for _, session := range list {
		out = append(out, toSessionResponse(session))
	}
	c.JSON(http.StatusOK, gin.H{"sessions": out})
}

func (s *Server) getSession(c *gin.Context) {
	session, err := s.sessions.GetByShortID(c.Request.Context(), c.Param("shortID"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	resp := gin.H{"session": toSessionResponse(session)}

	// the contact set is the creator's data; visitors only learn the phase
	if clientIdentifier(c) != "" && clientIdentifier(c) == session.CreatorIdentifier {
		list, err := s.contacts.List(c.Request.Context(), session.ID)
		if err != nil {
			s.writeError(c, err)
			return
		}
		out := make([]contactResponse, 0, len(list))
		for _, contact := range list {
			out = append(out, toContactResponse(contact))
		}
		resp["contacts"] = out
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) getStatus(c *gin.Context) {
	submitted := c.Query("submitted") == "true"

	status, err := s.sessions.Status(c.Request.Context(), c.Param("shortID"), clientIdentifier(c), submitted)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// distinct from terminal: the token may simply be wrong
			c.JSON(http.StatusNotFound, gin.H{"phase": lifecycle.PhaseNotFound})
			return
		}
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"phase":      status.Phase,
		"countdown":  status.Countdown,
		"is_creator": status.IsCreator,
	})
}

// streamStatus pushes one status snapshot per second as server-sent events,
// so an open view does not have to poll. The stream ends once the session
// turns terminal or the client disconnects.
func (s *Server) streamStatus(c *gin.Context) {
	session, err := s.sessions.GetByShortID(c.Request.Context(), c.Param("shortID"))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"phase": lifecycle.PhaseNotFound})
			return
		}
		s.writeError(c, err)
		return
	}

	submitted := c.Query("submitted") == "true"
	isCreator := clientIdentifier(c) != "" && clientIdentifier(c) == session.CreatorIdentifier

	watcher := lifecycle.NewWatcher(session.ExpiresAt, session.DeletionScheduledAt, submitted)
	updates := watcher.Run(c.Request.Context())

	c.Stream(func(w io.Writer) bool {
		status, ok := <-updates
		if !ok {
			return false
		}
		c.SSEvent("status", gin.H{
			"phase":      status.Phase,
			"countdown":  status.Countdown,
			"is_creator": isCreator,
		})
		return true
	})
}

func (s *Server) submitContact(c *gin.Context) {
	var req submitContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	session, err := s.sessions.GetByShortID(c.Request.Context(), c.Param("shortID"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	contact, err := s.contacts.Submit(c.Request.Context(), session.ID, req.Name, req.Phone, req.Email)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toContactResponse(contact))
}

func (s *Server) download(c *gin.Context) {
	dl, err := s.sessions.ProduceDownload(c.Request.Context(), c.Param("shortID"), clientIdentifier(c))
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+dl.Filename+`"`)
	c.Data(http.StatusOK, "text/vcard; charset=utf-8", []byte(dl.Content))
}

func (s *Server) hideSession(c *gin.Context) {
	if err := s.sessions.Hide(c.Request.Context(), c.Param("id"), clientIdentifier(c)); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
