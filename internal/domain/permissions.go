package domain

import "github.com/jhoicas/Pantallas-api/internal/domain/entity"

// Permisos nombrados del sistema. La tabla rol→permisos es estática: este
// sistema no necesita políticas dinámicas, solo un catálogo pequeño.
const (
	PermManageTemplates = "manage_templates"
	PermManageScreens   = "manage_screens"
	PermManagePlaylists = "manage_playlists"
	PermManageCampaigns = "manage_campaigns"
	PermManageUsers     = "manage_users"
	PermManageCompany   = "manage_company"
	PermViewRecycleBin  = "view_recycle_bin"
)

// rolePermissions mapa estático rol → permisos. super_admin no aparece
// porque tiene bypass incondicional (ver HasPermissions).
var rolePermissions = map[string][]string{
	entity.RoleUser: {
		PermManageTemplates,
		PermManageScreens,
		PermManagePlaylists,
		PermViewRecycleBin,
	},
	entity.RoleAdvertiser: {
		PermManageTemplates,
		PermManagePlaylists,
		PermManageCampaigns,
		PermViewRecycleBin,
	},
	entity.RoleAdmin: {
		PermManageTemplates,
		PermManageScreens,
		PermManagePlaylists,
		PermManageCampaigns,
		PermManageUsers,
		PermManageCompany,
		PermViewRecycleBin,
	},
}

// PermissionsForRole devuelve los permisos del rol según la tabla estática.
func PermissionsForRole(role string) []string {
	return rolePermissions[role]
}

// IsUnrestricted es el único punto donde se decide el bypass de super_admin.
// Lo consumen tanto el middleware RBAC como el motor de tenant-scoping; no
// se debe re-chequear role == super_admin en ningún otro sitio.
func IsUnrestricted(role string) bool {
	return role == entity.RoleSuperAdmin
}

// HasPermissions verifica que el rol cubra todos los permisos requeridos.
// super_admin pasa siempre, aunque la tabla estática no lo liste: es el rol
// de soporte/último recurso y su bypass es una decisión de diseño, no un bug.
func HasPermissions(role string, required []string) bool {
	if IsUnrestricted(role) {
		return true
	}
	if len(required) == 0 {
		return true
	}
	granted := rolePermissions[role]
	for _, want := range required {
		found := false
		for _, have := range granted {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
