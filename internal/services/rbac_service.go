package services

import "sitedesk/internal/models"

// Action names one permitted operation class. Permissions are resolved from
// the static capability table below, checked once at the route boundary.
type Action string

const (
	ActionSupplyRecord    Action = "supply:record"
	ActionSupplyView      Action = "supply:view"
	ActionMaterialsManage Action = "materials:manage"
	ActionObjectsManage   Action = "objects:manage"
	ActionObjectsView     Action = "objects:view"
	ActionWorksManage     Action = "works:manage"
	ActionWorksView       Action = "works:view"
	ActionReportsView     Action = "reports:view"
	ActionUsersManage     Action = "users:manage"
	ActionAuditView       Action = "audit:view"
	ActionJobsManage      Action = "jobs:manage"
)

var capabilities = map[models.Role]map[Action]bool{
	models.RoleAdmin: {
		ActionSupplyRecord: true, ActionSupplyView: true,
		ActionMaterialsManage: true,
		ActionObjectsManage:   true, ActionObjectsView: true,
		ActionWorksManage: true, ActionWorksView: true,
		ActionReportsView: true,
		ActionUsersManage: true,
		ActionAuditView:   true,
		ActionJobsManage:  true,
	},
	models.RoleEngineer: {
		ActionSupplyView:    true,
		ActionObjectsManage: true, ActionObjectsView: true,
		ActionWorksManage: true, ActionWorksView: true,
		ActionReportsView: true,
	},
	models.RoleForeman: {
		ActionSupplyRecord: true, ActionSupplyView: true,
		ActionObjectsView: true,
		ActionWorksManage: true, ActionWorksView: true,
		ActionReportsView: true,
	},
	models.RoleSupply: {
		ActionSupplyRecord: true, ActionSupplyView: true,
		ActionMaterialsManage: true,
		ActionObjectsView:     true,
	},
	models.RoleViewer: {
		ActionSupplyView:  true,
		ActionObjectsView: true,
		ActionWorksView:   true,
		ActionReportsView: true,
	},
}

// Allowed reports whether the role may perform the action. Unknown roles
// have no capabilities.
func Allowed(role models.Role, action Action) bool {
	return capabilities[role][action]
}
