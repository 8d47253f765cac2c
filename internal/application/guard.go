package application

import "github.com/eadebayo/delicioso/internal/domain/entity"

// Authorize gates every mutation of a store or review: the acting principal
// must be an administrator or the owner of the resource. Reads never pass
// through here. The caller resolves the resource first, so a missing
// resource consistently surfaces as ErrNotFound before ownership is checked.
func Authorize(principal *entity.User, ownerID string) error {
	if principal == nil {
		return ErrUnauthenticated
	}
	if principal.IsAdmin() || principal.ID == ownerID {
		return nil
	}
	return ErrForbidden
}
