package timesheet

import "github.com/jhoicas/Timetrack-api/internal/domain/entity"

// Nivel jerárquico por rol. Un rol desconocido vale 0 (mínimo privilegio):
// el resto del sistema deniega en vez de fallar.
func Level(role string) int {
	switch role {
	case entity.RoleEmployee:
		return 1
	case entity.RoleLead:
		return 2
	case entity.RoleManager:
		return 3
	case entity.RoleManagement:
		return 4
	case entity.RoleSuperAdmin:
		return 5
	}
	return 0
}

// CanApprove indica si approverRole puede aprobar un envío hecho por
// submitterRole: estrictamente mayor. Pares del mismo nivel nunca se
// aprueban entre sí (dos managers incluidos).
func CanApprove(approverRole, submitterRole string) bool {
	return Level(approverRole) > Level(submitterRole)
}

// CanApproveLevel variante con nivel del emisor ya resuelto.
func CanApproveLevel(approverRole string, submitterLevel int) bool {
	return Level(approverRole) > submitterLevel
}

// CanVerify indica si el rol puede verificar (tier management o superior).
func CanVerify(role string) bool {
	return Level(role) >= Level(entity.RoleManagement)
}

// CanBill indica si el rol puede facturar (tier management o superior).
func CanBill(role string) bool {
	return Level(role) >= Level(entity.RoleManagement)
}

// EffectiveLevel combina el rol de sistema con el rol de proyecto sobre el
// proyecto objetivo: un lead de proyecto actúa al nivel lead aunque su rol de
// sistema sea employee.
func EffectiveLevel(systemRole, projectRole string) int {
	lvl := Level(systemRole)
	if pl := Level(projectRole); pl > lvl {
		lvl = pl
	}
	return lvl
}

// TierForLevel devuelve el tier sobre el que actúa un nivel dado:
// 2 → lead, 3 → manager, 4+ → management. Nivel insuficiente devuelve "".
func TierForLevel(level int) string {
	switch {
	case level >= 4:
		return entity.TierManagement
	case level == 3:
		return entity.TierManager
	case level == 2:
		return entity.TierLead
	}
	return ""
}
