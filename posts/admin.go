package posts

import (
	"context"
	"feedserver/auth"
	"feedserver/models"
	"feedserver/utils"
	"log/slog"
)

func (s *Service) CreateGroup(ctx context.Context, caller auth.Caller, title, slug, description string) (models.Group, error) {
	if err := auth.RequireAdmin(caller); err != nil {
		return models.Group{}, err
	}
	return models.GroupCreate(s.db.WithContext(ctx), title, slug, description)
}

// DeleteGroup keeps the group's posts, they just lose their group
func (s *Service) DeleteGroup(ctx context.Context, caller auth.Caller, slug string) error {
	if err := auth.RequireAdmin(caller); err != nil {
		return err
	}
	if err := models.GroupDelete(s.db.WithContext(ctx), slug); err != nil {
		return err
	}
	slog.Info("group deleted", "slug", slug, "by", caller.ID)
	return nil
}

// DeleteUser is open to admins and to the account owner
func (s *Service) DeleteUser(ctx context.Context, caller auth.Caller, userID uint64) error {
	if err := auth.RequireAuthenticated(caller); err != nil {
		return err
	}
	if !caller.IsAdmin && caller.ID != userID {
		return utils.NewForbiddenError()
	}
	if err := models.UserDelete(s.db.WithContext(ctx), userID); err != nil {
		return err
	}
	slog.Info("user deleted", "user_id", userID, "by", caller.ID)
	return nil
}
