package family

import "errors"

var (
	ErrFamilyNotFound     = errors.New("family not found")
	ErrInviteCodeNotFound = errors.New("invite code not found")
	ErrMemberNotFound     = errors.New("member not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrAlreadyMember      = errors.New("already a member of this family")

	ErrNotFamilyMember       = errors.New("not a member of this family")
	ErrEditForbidden         = errors.New("viewer role cannot modify family data")
	ErrManageRequired        = errors.New("admin or owner role required")
	ErrOwnerRequired         = errors.New("owner role required")
	ErrCannotRemoveOwner     = errors.New("the family owner cannot be removed")
	ErrOnlyOwnerRemovesAdmin = errors.New("only the owner can remove an admin")
	ErrOwnerRoleImmutable    = errors.New("the owner role cannot be changed")
	ErrCannotAssignOwner     = errors.New("the owner role cannot be assigned")

	ErrCodeGenerationFailed = errors.New("invite code generation failed")
)
