package lifecycle

import "unires/shared/constant"

func (a Actor) IsAdmin() bool {
	return a.Role == constant.RoleAdmin || a.Role == constant.RoleSuperAdmin
}

func (a Actor) IsHod() bool {
	return a.Role == constant.RoleHod || a.Role == constant.RoleSuperAdmin
}
