package auth

import (
	"github.com/campusworks/complaint-management/internal"
)

// Operation enumerates everything an identity can ask the system to do.
// All role rules live in the Authorize table below; handlers and services
// never branch on roles themselves.
type Operation int

const (
	OpListComplaints Operation = iota
	OpReadComplaint
	OpCreateComplaint
	OpUpdateComplaint
	OpManageUsers
	OpViewStats
)

func (op Operation) String() string {
	switch op {
	case OpListComplaints:
		return "list_complaints"
	case OpReadComplaint:
		return "read_complaint"
	case OpCreateComplaint:
		return "create_complaint"
	case OpUpdateComplaint:
		return "update_complaint"
	case OpManageUsers:
		return "manage_users"
	case OpViewStats:
		return "view_stats"
	}
	return "unknown"
}

// StatusFilterAll matches every status; it and the empty string are
// equivalent no-ops.
const StatusFilterAll = "All"

// Scope is the row-visibility predicate an authorized operation must
// apply before returning or mutating complaint data. Zero-value fields
// impose no restriction.
type Scope struct {
	// ReportedBy restricts rows to this reporter when non-zero (Faculty).
	ReportedBy int64
	// AssignedTo restricts rows to this maintenance department when
	// non-empty (Maintenance).
	AssignedTo string
	// AdminFilters reports whether the caller may apply the optional
	// status / reporting-department filters (Admin and SuperAdmin).
	AdminFilters bool
}

// AllowsRow reports whether a complaint row identified by its reporter id
// and assigned department falls inside the scope.
func (s Scope) AllowsRow(reportedBy int64, assignedTo string) bool {
	if s.ReportedBy != 0 && reportedBy != s.ReportedBy {
		return false
	}
	if s.AssignedTo != "" && assignedTo != s.AssignedTo {
		return false
	}
	return true
}

// Authorize decides whether an identity may perform an operation and, for
// complaint reads, what visibility scope applies.
func Authorize(identity *Identity, op Operation) (Scope, error) {
	if identity == nil {
		return Scope{}, internal.ErrAccessDenied
	}

	switch op {
	case OpListComplaints, OpReadComplaint:
		switch identity.Role {
		case RoleFaculty:
			return Scope{ReportedBy: identity.ID}, nil
		case RoleMaintenance:
			return Scope{AssignedTo: identity.Department}, nil
		case RoleAdmin, RoleSuperAdmin:
			return Scope{AdminFilters: true}, nil
		}
		return Scope{}, internal.ErrAccessDenied

	case OpCreateComplaint:
		if identity.Role == RoleFaculty {
			return Scope{}, nil
		}
		return Scope{}, internal.ErrAccessDenied

	case OpUpdateComplaint:
		if identity.Role == RoleMaintenance {
			return Scope{AssignedTo: identity.Department}, nil
		}
		return Scope{}, internal.ErrAccessDenied

	case OpManageUsers:
		if identity.Role == RoleSuperAdmin {
			return Scope{}, nil
		}
		return Scope{}, internal.ErrAccessDenied

	case OpViewStats:
		if identity.Role == RoleAdmin || identity.Role == RoleSuperAdmin {
			return Scope{}, nil
		}
		return Scope{}, internal.ErrAccessDenied
	}

	return Scope{}, internal.ErrAccessDenied
}
