// Package policy resolves whether an actor may perform an action on an
// entity kind. Resolution is a pure function over an explicit permission
// table; deny is binding and callers must treat it as fatal to the request.
package policy

import (
	"github.com/llinneaa/coyote/internal/domain"
)

// Action is a named controller-level operation.
type Action string

const (
	ActionIndex   Action = "index"
	ActionShow    Action = "show"
	ActionNew     Action = "new"
	ActionCreate  Action = "create"
	ActionEdit    Action = "edit"
	ActionUpdate  Action = "update"
	ActionDestroy Action = "destroy"
)

// Kind is the entity type a policy applies to.
type Kind string

const (
	KindResource      Kind = "resource"
	KindResourceLink  Kind = "resource_link"
	KindResourceGroup Kind = "resource_group"
	KindRepresentation Kind = "representation"
	KindOrganization  Kind = "organization"
	KindMembership    Kind = "membership"
	KindWebsite       Kind = "website"
	KindUser          Kind = "user"
)

// Actor is the authenticated subject of a policy check: a user plus the role
// of their membership in the organization the target belongs to.
type Actor struct {
	UserID domain.UserID
	Role   domain.Role
	Staff  bool
}

// Authenticated reports whether the actor is a signed-in user. Unauthenticated
// actors are always denied.
func (a Actor) Authenticated() bool { return a.UserID != (domain.UserID{}) }

// Target identifies what the action would touch. UserID is set only for
// user-record targets, where the self rule applies.
type Target struct {
	Kind   Kind
	UserID domain.UserID
}

// deny marks actions that no organization role grants.
const deny = domain.Role("__deny__")

// The permission matrix: minimum membership role per (kind, action). Kinds
// and actions absent from the table are denied. User records are resolved
// separately (self and staff rules) and do not appear here.
var matrix = map[Kind]map[Action]domain.Role{
	KindResource: {
		ActionIndex:   domain.RoleViewer,
		ActionShow:    domain.RoleViewer,
		ActionNew:     domain.RoleAuthor,
		ActionCreate:  domain.RoleAuthor,
		ActionEdit:    domain.RoleEditor,
		ActionUpdate:  domain.RoleEditor,
		ActionDestroy: domain.RoleEditor,
	},
	KindResourceLink: {
		ActionIndex:   deny,
		ActionShow:    domain.RoleViewer,
		ActionNew:     domain.RoleAuthor,
		ActionCreate:  domain.RoleAuthor,
		ActionEdit:    domain.RoleEditor,
		ActionUpdate:  domain.RoleEditor,
		ActionDestroy: domain.RoleEditor,
	},
	KindResourceGroup: {
		ActionIndex:   domain.RoleViewer,
		ActionShow:    domain.RoleViewer,
		ActionNew:     domain.RoleEditor,
		ActionCreate:  domain.RoleEditor,
		ActionEdit:    domain.RoleEditor,
		ActionUpdate:  domain.RoleEditor,
		ActionDestroy: domain.RoleEditor,
	},
	KindRepresentation: {
		ActionIndex:   domain.RoleViewer,
		ActionShow:    domain.RoleViewer,
		ActionNew:     domain.RoleAuthor,
		ActionCreate:  domain.RoleAuthor,
		ActionEdit:    domain.RoleEditor,
		ActionUpdate:  domain.RoleEditor,
		ActionDestroy: domain.RoleEditor,
	},
	KindOrganization: {
		ActionIndex:   domain.RoleViewer,
		ActionShow:    domain.RoleViewer,
		ActionNew:     deny,
		ActionCreate:  deny,
		ActionEdit:    domain.RoleAdmin,
		ActionUpdate:  domain.RoleAdmin,
		ActionDestroy: domain.RoleOwner,
	},
	KindMembership: {
		ActionIndex:   domain.RoleViewer,
		ActionShow:    domain.RoleViewer,
		ActionNew:     domain.RoleAdmin,
		ActionCreate:  domain.RoleAdmin,
		ActionEdit:    domain.RoleAdmin,
		ActionUpdate:  domain.RoleAdmin,
		ActionDestroy: domain.RoleAdmin,
	},
	KindWebsite: {
		ActionIndex:   domain.RoleViewer,
		ActionShow:    domain.RoleViewer,
		ActionNew:     domain.RoleAdmin,
		ActionCreate:  domain.RoleAdmin,
		ActionEdit:    domain.RoleAdmin,
		ActionUpdate:  domain.RoleAdmin,
		ActionDestroy: domain.RoleAdmin,
	},
}

// Can resolves whether the actor may perform action on the target. No side
// effects; callers evaluate it before touching entity data.
func Can(actor Actor, target Target, action Action) bool {
	if !actor.Authenticated() {
		return false
	}
	if target.Kind == KindUser {
		return canUser(actor, target, action)
	}
	if actor.Staff {
		return true
	}
	actions, ok := matrix[target.Kind]
	if !ok {
		return false
	}
	min, ok := actions[action]
	if !ok || min == deny {
		return false
	}
	return actor.Role.AtLeast(min)
}

// canUser applies the user-record rules: anyone signed in may view a
// profile; a user may always edit or update their own record; only staff may
// list, create, destroy, or touch someone else's record.
func canUser(actor Actor, target Target, action Action) bool {
	if actor.Staff {
		return true
	}
	switch action {
	case ActionShow:
		return true
	case ActionEdit, ActionUpdate:
		return actor.UserID == target.UserID
	default:
		return false
	}
}
