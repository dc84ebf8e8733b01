package services

import (
	"testing"

	"github.com/nelttjen/chat-platform-api/internal/models"
	"github.com/nelttjen/chat-platform-api/internal/repository"
	"github.com/nelttjen/chat-platform-api/internal/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type chatTestEnv struct {
	db          *gorm.DB
	chats       repository.ChatRepository
	chatService *ChatService
}

func setupChatTestEnv(t *testing.T) chatTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Chat{},
		&models.ChatMember{},
		&models.InviteLink{},
	)
	require.NoError(t, err)

	chats := repository.NewChatRepository(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return chatTestEnv{
		db:          db,
		chats:       chats,
		chatService: NewChatService(chats),
	}
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@x.com",
		PasswordHash: "hashed",
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func addTestMember(t *testing.T, db *gorm.DB, chatID, userID uint64, role models.Role) *models.ChatMember {
	t.Helper()

	member := &models.ChatMember{
		ChatID: chatID,
		UserID: userID,
		Role:   role,
	}
	require.NoError(t, db.Create(member).Error)
	return member
}

func TestChatService_CreateChat(t *testing.T) {
	env := setupChatTestEnv(t)
	owner := createTestUser(t, env.db, "owner")

	chat, err := env.chatService.CreateChat(owner.ID, "general")
	require.NoError(t, err)
	require.Equal(t, int64(1), chat.MembersCount)

	// The owner gets an admin membership atomically with the chat.
	member, err := env.chats.FindMember(chat.ID, owner.ID)
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, member.Role)

	_, err = env.chatService.CreateChat(owner.ID, "   ")
	require.ErrorIs(t, err, ErrInvalidChatName)
}

func TestChatService_CheckAccessRoleOrdering(t *testing.T) {
	env := setupChatTestEnv(t)
	owner := createTestUser(t, env.db, "owner")
	chat, err := env.chatService.CreateChat(owner.ID, "general")
	require.NoError(t, err)

	admin := createTestUser(t, env.db, "admin-member")
	moder := createTestUser(t, env.db, "moder-member")
	user := createTestUser(t, env.db, "user-member")
	outsider := createTestUser(t, env.db, "outsider")

	addTestMember(t, env.db, chat.ID, admin.ID, models.RoleAdmin)
	addTestMember(t, env.db, chat.ID, moder.ID, models.RoleModer)
	addTestMember(t, env.db, chat.ID, user.ID, models.RoleUser)

	// MODER requirement: admin and moderator pass, user and outsider do not.
	require.NoError(t, env.chatService.CheckAccess(chat.ID, admin.ID, models.RoleModer))
	require.NoError(t, env.chatService.CheckAccess(chat.ID, moder.ID, models.RoleModer))
	require.ErrorIs(t, env.chatService.CheckAccess(chat.ID, user.ID, models.RoleModer), ErrChatAccessDenied)
	require.ErrorIs(t, env.chatService.CheckAccess(chat.ID, outsider.ID, models.RoleModer), ErrChatAccessDenied)

	// USER requirement: any active member passes.
	require.NoError(t, env.chatService.CheckAccess(chat.ID, user.ID, models.RoleUser))
	require.ErrorIs(t, env.chatService.CheckAccess(chat.ID, outsider.ID, models.RoleUser), ErrChatAccessDenied)
}

func TestChatService_CheckAccessExcludesLeftAndBanned(t *testing.T) {
	env := setupChatTestEnv(t)
	owner := createTestUser(t, env.db, "owner")
	chat, err := env.chatService.CreateChat(owner.ID, "general")
	require.NoError(t, err)

	left := createTestUser(t, env.db, "left-member")
	banned := createTestUser(t, env.db, "banned-member")

	leftMember := addTestMember(t, env.db, chat.ID, left.ID, models.RoleAdmin)
	leftMember.IsLeft = true
	require.NoError(t, env.chats.UpdateMember(leftMember))

	bannedMember := addTestMember(t, env.db, chat.ID, banned.ID, models.RoleAdmin)
	bannedMember.IsBanned = true
	require.NoError(t, env.chats.UpdateMember(bannedMember))

	require.ErrorIs(t, env.chatService.CheckAccess(chat.ID, left.ID, models.RoleUser), ErrChatAccessDenied)
	require.ErrorIs(t, env.chatService.CheckAccess(chat.ID, banned.ID, models.RoleUser), ErrChatAccessDenied)
}

func TestChatService_LeaveChat(t *testing.T) {
	env := setupChatTestEnv(t)
	owner := createTestUser(t, env.db, "owner")
	chat, err := env.chatService.CreateChat(owner.ID, "general")
	require.NoError(t, err)

	member := createTestUser(t, env.db, "member")
	addTestMember(t, env.db, chat.ID, member.ID, models.RoleUser)
	require.NoError(t, env.db.Model(&models.Chat{}).Where("id = ?", chat.ID).
		UpdateColumn("members_count", gorm.Expr("members_count + 1")).Error)

	require.NoError(t, env.chatService.LeaveChat(chat.ID, member.ID))
	require.ErrorIs(t, env.chatService.CheckAccess(chat.ID, member.ID, models.RoleUser), ErrChatAccessDenied)

	updated, err := env.chatService.GetChat(chat.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), updated.MembersCount)

	// Leaving twice fails: the membership is no longer active.
	require.ErrorIs(t, env.chatService.LeaveChat(chat.ID, member.ID), ErrChatAccessDenied)
}

func TestChatService_BanMember(t *testing.T) {
	env := setupChatTestEnv(t)
	owner := createTestUser(t, env.db, "owner")
	chat, err := env.chatService.CreateChat(owner.ID, "general")
	require.NoError(t, err)

	moder := createTestUser(t, env.db, "moder")
	user := createTestUser(t, env.db, "user")
	addTestMember(t, env.db, chat.ID, moder.ID, models.RoleModer)
	addTestMember(t, env.db, chat.ID, user.ID, models.RoleUser)

	// A plain member cannot moderate.
	_, err = env.chatService.BanMember(chat.ID, user.ID, moder.ID)
	require.ErrorIs(t, err, ErrChatAccessDenied)

	// A moderator cannot ban an equal or higher role.
	_, err = env.chatService.BanMember(chat.ID, moder.ID, owner.ID)
	require.ErrorIs(t, err, ErrChatAccessDenied)

	// Nobody moderates themselves.
	_, err = env.chatService.BanMember(chat.ID, moder.ID, moder.ID)
	require.ErrorIs(t, err, ErrCannotModerateSelf)

	banned, err := env.chatService.BanMember(chat.ID, moder.ID, user.ID)
	require.NoError(t, err)
	require.True(t, banned.IsBanned)
	require.ErrorIs(t, env.chatService.CheckAccess(chat.ID, user.ID, models.RoleUser), ErrChatAccessDenied)

	list, err := env.chatService.ListBannedMembers(chat.ID, moder.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, user.ID, list[0].UserID)

	unbanned, err := env.chatService.UnbanMember(chat.ID, moder.ID, user.ID)
	require.NoError(t, err)
	require.False(t, unbanned.IsBanned)
	require.NoError(t, env.chatService.CheckAccess(chat.ID, user.ID, models.RoleUser))
}

func TestChatService_ListUserChats(t *testing.T) {
	env := setupChatTestEnv(t)
	owner := createTestUser(t, env.db, "owner")

	for _, name := range []string{"one", "two", "three"} {
		_, err := env.chatService.CreateChat(owner.ID, name)
		require.NoError(t, err)
	}

	memberships, total, err := env.chatService.ListUserChats(owner.ID, utils.NewPaginationParams(1, 2))
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, memberships, 2)
	require.NotEmpty(t, memberships[0].Chat.Name)
}
