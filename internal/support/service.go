package support

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/obinnaeze/renthaven-backend/pkg/config"
	"github.com/obinnaeze/renthaven-backend/pkg/db/models"
	pkgerrors "github.com/obinnaeze/renthaven-backend/pkg/errors"
	"github.com/obinnaeze/renthaven-backend/pkg/logger"
)

type ContactDTO struct {
	MessageID    uuid.UUID `json:"messageId"`
	WhatsAppLink string    `json:"whatsAppLink"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Service persists the support message and hands back a deep link into the
// messaging app. The handoff is one-way; nothing calls back into us.
type Service interface {
	Contact(ctx context.Context, userID uuid.UUID, body string) (*ContactDTO, error)
	History(ctx context.Context, userID uuid.UUID) ([]models.SupportMessage, error)
}

type service struct {
	db   *gorm.DB
	cfg  config.SupportConfig
	logg *logger.Logger
}

func NewService(db *gorm.DB, cfg config.SupportConfig, logg *logger.Logger) (Service, error) {
	if db == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "support: db is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "support: logger is required")
	}
	return &service{db: db, cfg: cfg, logg: logg}, nil
}

func (s *service) Contact(ctx context.Context, userID uuid.UUID, body string) (*ContactDTO, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message body is required")
	}

	message := models.SupportMessage{ID: uuid.New(), UserID: userID, Body: body}
	if err := s.db.WithContext(ctx).Create(&message).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "support: save message")
	}

	lctx := s.logg.WithUserID(ctx, userID.String())
	s.logg.Info(lctx, "support message saved")

	return &ContactDTO{
		MessageID:    message.ID,
		WhatsAppLink: BuildWhatsAppLink(s.cfg.WhatsAppNumber, body),
		CreatedAt:    message.CreatedAt,
	}, nil
}

func (s *service) History(ctx context.Context, userID uuid.UUID) ([]models.SupportMessage, error) {
	var rows []models.SupportMessage
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "support: list messages")
	}
	return rows, nil
}

// BuildWhatsAppLink produces a wa.me URL with the message prefilled. The
// number is reduced to digits since wa.me rejects + and separators.
func BuildWhatsAppLink(number, text string) string {
	var digits strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	link := url.URL{Scheme: "https", Host: "wa.me", Path: "/" + digits.String()}
	if trimmed := strings.TrimSpace(text); trimmed != "" {
		query := url.Values{}
		query.Set("text", trimmed)
		link.RawQuery = query.Encode()
	}
	return link.String()
}
