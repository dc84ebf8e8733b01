package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/nelttjen/chat-platform-api/internal/models"
	"github.com/nelttjen/chat-platform-api/internal/repository"
	"github.com/nelttjen/chat-platform-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrLinkNotFound = errors.New("invite link not found")
	// ErrLinkExpired covers both expiry conditions: the expiry time passed or
	// the use budget is spent, including a concurrent redemption taking the
	// last use mid-flight.
	ErrLinkExpired = errors.New("link is invalid or expired")
	// ErrChatBanned is returned when a chat-banned user tries to rejoin
	// through any invite link.
	ErrChatBanned = errors.New("you are banned from this chat")
	// ErrAlreadyMember is returned for an active member; redemption is not
	// idempotent.
	ErrAlreadyMember   = errors.New("you are already invited to this chat")
	ErrInvalidLinkArgs = errors.New("invalid invite link parameters")
)

// InviteLinkService generates, lists and redeems invite links. Creation and
// listing require moderator role on the chat; redemption is open to any user
// the link reaches, subject to the link's own limits and chat bans.
type InviteLinkService struct {
	links  repository.InviteLinkRepository
	chats  repository.ChatRepository
	access *ChatService
}

// NewInviteLinkService creates a new InviteLinkService.
func NewInviteLinkService(links repository.InviteLinkRepository, chats repository.ChatRepository, access *ChatService) *InviteLinkService {
	return &InviteLinkService{
		links:  links,
		chats:  chats,
		access: access,
	}
}

// CreateLink mints a new invite link for the chat. maxUses and expiresAt are
// optional; nil means unlimited uses and no expiry respectively.
func (s *InviteLinkService) CreateLink(chat *models.Chat, requester *models.User, maxUses *int, expiresAt *time.Time) (*models.InviteLink, error) {
	if err := s.access.CheckAccess(chat.ID, requester.ID, models.RoleModer); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if maxUses != nil && *maxUses <= 0 {
		return nil, fmt.Errorf("%w: max uses must be positive", ErrInvalidLinkArgs)
	}
	if expiresAt != nil && !expiresAt.After(now) {
		return nil, fmt.Errorf("%w: expiry must be in the future", ErrInvalidLinkArgs)
	}

	link := &models.InviteLink{
		Link:      utils.GenerateLinkToken(requester.ID, chat.ID, now),
		ChatID:    chat.ID,
		OwnerID:   requester.ID,
		MaxUses:   maxUses,
		ExpiresAt: expiresAt,
	}

	if err := s.links.Create(link); err != nil {
		return nil, fmt.Errorf("failed to create invite link: %w", err)
	}

	return link, nil
}

// ListLinks returns the chat's invite links. With excludeExpired set, links
// that are past their expiry time or out of uses are omitted.
func (s *InviteLinkService) ListLinks(chat *models.Chat, requester *models.User, excludeExpired bool, params utils.PaginationParams) ([]models.InviteLink, int64, error) {
	if err := s.access.CheckAccess(chat.ID, requester.ID, models.RoleModer); err != nil {
		return nil, 0, err
	}

	links, total, err := s.links.ListByChat(chat.ID, excludeExpired, time.Now().UTC(), params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list invite links: %w", err)
	}

	return links, total, nil
}

// Redeem joins the user to the link's chat. The checks run in a fixed order:
// link existence, link expiry, chat ban, active membership. Only then does
// the mutating step run, which commits the membership activation and the
// use-count increment atomically.
func (s *InviteLinkService) Redeem(linkToken string, user *models.User) (*models.ChatMember, error) {
	link, err := s.links.FindByToken(linkToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to find invite link: %w", err)
	}

	// Expired links never consume a use.
	if link.IsExpired() {
		return nil, ErrLinkExpired
	}

	existing, err := s.chats.FindMember(link.ChatID, user.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}

	if existing != nil {
		if existing.IsBanned {
			return nil, ErrChatBanned
		}
		if !existing.IsLeft {
			return nil, ErrAlreadyMember
		}
	}

	member, err := s.links.Redeem(link, existing, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrLinkCapacityExhausted) {
			return nil, ErrLinkExpired
		}
		return nil, fmt.Errorf("failed to redeem invite link: %w", err)
	}

	return member, nil
}
