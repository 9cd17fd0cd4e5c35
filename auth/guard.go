package auth

import (
	"feedserver/models"
	"feedserver/utils"
)

// RequireAuthenticated guards every write and the personal feed
func RequireAuthenticated(caller Caller) error {
	if !caller.Authenticated() {
		return utils.NewUnauthenticatedError()
	}
	return nil
}

func RequireAdmin(caller Caller) error {
	if err := RequireAuthenticated(caller); err != nil {
		return err
	}
	if !caller.IsAdmin {
		return utils.NewForbiddenError()
	}
	return nil
}

// CanModifyPost is true only for the post's author
func CanModifyPost(caller Caller, post *models.Post) bool {
	return caller.Authenticated() && caller.ID == post.AuthorID
}
