package repository

import (
	"errors"
	"time"

	"github.com/nelttjen/chat-platform-api/internal/database"
	"github.com/nelttjen/chat-platform-api/internal/models"
	"github.com/nelttjen/chat-platform-api/internal/utils"
	"gorm.io/gorm"
)

// ErrLinkCapacityExhausted is returned when the conditional use-count
// increment matches no row: a concurrent redemption spent the last use
// between the expiry check and the commit.
var ErrLinkCapacityExhausted = errors.New("invite link repository: link has no uses left")

// GormInviteLinkRepository is a GORM implementation of InviteLinkRepository
type GormInviteLinkRepository struct {
	db *gorm.DB
}

// NewInviteLinkRepository creates a new InviteLinkRepository
func NewInviteLinkRepository(db *gorm.DB) InviteLinkRepository {
	return &GormInviteLinkRepository{db: db}
}

// Create creates a new invite link
func (r *GormInviteLinkRepository) Create(link *models.InviteLink) error {
	return r.db.Create(link).Error
}

// FindByToken finds a link by its shareable token
func (r *GormInviteLinkRepository) FindByToken(linkToken string) (*models.InviteLink, error) {
	var link models.InviteLink
	if err := r.db.Where("link = ?", linkToken).First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// ListByChat lists links of a chat, optionally omitting expired ones
func (r *GormInviteLinkRepository) ListByChat(chatID uint64, excludeExpired bool, now time.Time, params utils.PaginationParams) ([]models.InviteLink, int64, error) {
	query := r.db.Model(&models.InviteLink{}).Where("chat_id = ?", chatID)

	if excludeExpired {
		// A link is expired when its expiry time passed OR its use budget is
		// spent; kept links must fail both conditions.
		query = query.
			Where("expires_at IS NULL OR expires_at > ?", now).
			Where("max_uses IS NULL OR count_uses < max_uses")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var links []models.InviteLink
	if err := query.
		Order("created_at DESC").
		Scopes(database.Paginate(params)).
		Find(&links).Error; err != nil {
		return nil, 0, err
	}

	return links, total, nil
}

// Redeem commits one redemption atomically: the conditional use-count
// increment, the membership activation and the chat member counter either
// all persist or none do. The increment runs as a single conditional UPDATE
// so two racing redemptions of a use-limited link cannot both take the last
// use; the loser sees zero rows affected and fails as a late expiry.
func (r *GormInviteLinkRepository) Redeem(link *models.InviteLink, existing *models.ChatMember, userID uint64) (*models.ChatMember, error) {
	var member *models.ChatMember

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.InviteLink{}).
			Where("id = ? AND (max_uses IS NULL OR count_uses < max_uses)", link.ID).
			UpdateColumn("count_uses", gorm.Expr("count_uses + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrLinkCapacityExhausted
		}

		if existing != nil {
			// Rejoin reuses the row: role and message history survive.
			existing.IsLeft = false
			existing.LastActive = time.Now().UTC()
			if err := tx.Save(existing).Error; err != nil {
				return err
			}
			member = existing
		} else {
			member = &models.ChatMember{
				ChatID:     link.ChatID,
				UserID:     userID,
				Role:       models.RoleUser,
				LastActive: time.Now().UTC(),
			}
			if err := tx.Create(member).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.Chat{}).
			Where("id = ?", link.ChatID).
			UpdateColumn("members_count", gorm.Expr("members_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}

	link.CountUses++
	return member, nil
}
