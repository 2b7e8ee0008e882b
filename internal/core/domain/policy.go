package domain

// Action names a restricted operation checked against the capability matrix.
type Action string

const (
	ActionReadRequest   Action = "read_request"
	ActionEditRequest   Action = "edit_request"
	ActionDeleteRequest Action = "delete_request"
	ActionExportRequest Action = "export_request"
	ActionListOwn       Action = "list_own_requests"
	ActionListAll       Action = "list_all_requests"
	ActionListUsers     Action = "list_users"
)

type grant int

const (
	grantDeny grant = iota
	grantOwn        // allowed only on requests the actor owns
	grantAny        // allowed regardless of ownership
)

// capabilities is the full role × action matrix. Roles absent here (guest)
// and actions absent per role are denied.
var capabilities = map[string]map[Action]grant{
	RoleManager: {
		ActionReadRequest:   grantOwn,
		ActionEditRequest:   grantOwn,
		ActionDeleteRequest: grantOwn,
		ActionExportRequest: grantOwn,
		ActionListOwn:       grantAny,
	},
	RoleAdmin: {
		ActionReadRequest:   grantAny,
		ActionEditRequest:   grantAny,
		ActionDeleteRequest: grantAny,
		ActionExportRequest: grantAny,
		ActionListOwn:       grantAny,
		ActionListAll:       grantAny,
		ActionListUsers:     grantAny,
	},
}

// AccessPolicy evaluates the capability matrix. It must be consulted before
// every restricted read or mutation; transport code never short-circuits it.
type AccessPolicy struct{}

// Can reports whether role may perform action. isOwner states whether the
// actor owns the request the action targets; it is ignored for grantAny rows.
func (AccessPolicy) Can(role string, action Action, isOwner bool) bool {
	switch capabilities[role][action] {
	case grantAny:
		return true
	case grantOwn:
		return isOwner
	default:
		return false
	}
}
