package postgres

import (
	"context"
	"fmt"

	"rentradar/internal/models"

	"github.com/gocraft/dbr/v2"
	"go.uber.org/zap"
)

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.sess.
		InsertInto("users").
		Columns("id", "email", "telegram_chat_id").
		Values(user.ID, user.Email, user.TelegramChatID).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to create user",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
		return fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user created", zap.String("user_id", user.ID))
	return nil
}

func (s *Store) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User

	err := s.sess.
		Select("*").
		From("users").
		Where("id = ?", userID).
		LoadOneContext(ctx, &user)

	if err == dbr.ErrNotFound {
		return nil, nil
	}

	if err != nil {
		s.logger.Error("failed to get user",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (s *Store) UpdateUserTelegramChat(ctx context.Context, userID string, chatID int64) error {
	_, err := s.sess.
		Update("users").
		Set("telegram_chat_id", chatID).
		Where("id = ?", userID).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to update user telegram chat",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return fmt.Errorf("update user telegram chat: %w", err)
	}

	s.logger.Info("user telegram chat updated",
		zap.String("user_id", userID),
		zap.Int64("chat_id", chatID),
	)

	return nil
}
