package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/guidely/guidely-backend/internal/config"
	"github.com/guidely/guidely-backend/internal/model"
	"github.com/guidely/guidely-backend/internal/repository"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// ShareService emails a link to a published guide. Delivery runs in the
// background; the caller only waits for ownership and publish checks.
type ShareService struct {
	guideRepo *repository.StudyGuideRepository
	userRepo  *repository.UserRepository
	cfg       *config.Config
	log       zerolog.Logger
}

// NewShareService creates a new ShareService.
func NewShareService(
	guideRepo *repository.StudyGuideRepository,
	userRepo *repository.UserRepository,
	cfg *config.Config,
	log zerolog.Logger,
) *ShareService {
	return &ShareService{
		guideRepo: guideRepo,
		userRepo:  userRepo,
		cfg:       cfg,
		log:       log.With().Str("component", "share_service").Logger(),
	}
}

// Share validates that the caller owns the published guide and queues the
// email. Only published guides can be shared.
func (s *ShareService) Share(ctx context.Context, guideID, callerID uuid.UUID, req *model.ShareGuideRequest) error {
	guide, err := s.guideRepo.GetByID(ctx, guideID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrGuideNotFound
		}
		return err
	}
	if guide.UserID != callerID {
		return ErrNotGuideOwner
	}
	if !guide.IsPublished {
		return ErrGuideNotPublished
	}

	sender, err := s.userRepo.GetByID(ctx, callerID)
	if err != nil {
		return fmt.Errorf("get sender: %w", err)
	}

	msg := s.buildMessage(guide, sender, req)
	go s.deliver(msg, guideID)
	return nil
}

func (s *ShareService) buildMessage(guide *model.StudyGuide, sender *model.UserProfile, req *model.ShareGuideRequest) *sgmail.SGMailV3 {
	senderName := sender.FirstName + " " + sender.LastName
	link := fmt.Sprintf("%s/guides/%s", strings.TrimRight(s.cfg.FrontendBaseURL, "/"), guide.ID)

	var text strings.Builder
	fmt.Fprintf(&text, "%s shared the study guide %q with you.\n\n", senderName, guide.Title)
	if req.Message != "" {
		fmt.Fprintf(&text, "%s\n\n", req.Message)
	}
	fmt.Fprintf(&text, "Read it here: %s\n", link)

	var htmlBody strings.Builder
	fmt.Fprintf(&htmlBody, "<p>%s shared the study guide <strong>%s</strong> with you.</p>",
		html.EscapeString(senderName), html.EscapeString(guide.Title))
	if req.Message != "" {
		fmt.Fprintf(&htmlBody, "<p>%s</p>", html.EscapeString(req.Message))
	}
	fmt.Fprintf(&htmlBody, `<p><a href="%s">Read it here</a></p>`, link)

	p := sgmail.NewPersonalization()
	p.Subject = fmt.Sprintf("[%s] %s shared a study guide with you", s.cfg.EmailFromName, senderName)
	p.AddTos(sgmail.NewEmail("", req.Email))

	m := sgmail.NewV3Mail()
	m.SetFrom(sgmail.NewEmail(s.cfg.EmailFromName, s.cfg.EmailFromAddr))
	m.AddPersonalizations(p)
	m.AddContent(
		sgmail.NewContent("text/plain", text.String()),
		sgmail.NewContent("text/html", htmlBody.String()),
	)
	return m
}

// deliver sends one message through the SendGrid API. Failures are logged,
// never surfaced to the sharing teacher.
func (s *ShareService) deliver(m *sgmail.SGMailV3, guideID uuid.UUID) {
	if s.cfg.SendgridAPIKey == "" {
		s.log.Warn().Str("guide_id", guideID.String()).Msg("SendGrid key missing, share email dropped")
		return
	}

	req := sendgrid.GetRequest(s.cfg.SendgridAPIKey, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	res, err := sendgrid.API(req)
	if err != nil {
		s.log.Error().Err(err).Str("guide_id", guideID.String()).Msg("Share email failed")
		return
	}
	if res.StatusCode >= http.StatusBadRequest {
		s.log.Error().
			Int("status", res.StatusCode).
			Str("guide_id", guideID.String()).
			Msg("Share email rejected")
		return
	}

	s.log.Info().Str("guide_id", guideID.String()).Msg("Share email sent")
}
