package domain

// Recognized role names. Anything outside this set classifies as a customer.
const (
	RoleSystemAdmin     = "system_admin"
	RoleAdmin           = "admin"
	RoleFinanceManager  = "finance_manager"
	RoleAccountant      = "accountant"
	RoleCustomerService = "customer_service"
	RoleCollector       = "collector"
	RoleCustomer        = "customer"
)

// staffRoles is the set authorized for the back-office dashboard.
var staffRoles = map[string]struct{}{
	RoleAdmin:           {},
	RoleFinanceManager:  {},
	RoleAccountant:      {},
	RoleCustomerService: {},
}

// EffectiveRole resolves the single canonical role string for a user,
// preferring the structured role record over the legacy flat field. Returns
// "" for a nil user or a user with no role set; callers treat "" as customer.
func EffectiveRole(u *User) string {
	if u == nil {
		return ""
	}
	if u.RoleDetails != nil && u.RoleDetails.Name != "" {
		return u.RoleDetails.Name
	}
	return u.Role
}

// IsStaff reports whether the role belongs to the back-office staff set.
// system_admin is deliberately not staff: platform operators have their own
// surface and are whitelisted where needed.
func IsStaff(role string) bool {
	_, ok := staffRoles[role]
	return ok
}

// CollectorAllowed reports whether the role may enter the collector portal.
// admin is granted access alongside collector so company admins can oversee
// field operations.
func CollectorAllowed(role string) bool {
	return role == RoleCollector || role == RoleAdmin
}

// IsCustomer reports whether the role falls into the customer bucket: anything
// not recognized as staff, including unset and unknown role strings. This is
// the fail-closed default — an unrecognized role never gains a privileged
// surface.
func IsCustomer(role string) bool {
	return !IsStaff(role) && role != RoleSystemAdmin && role != RoleCollector
}

// HomePath returns the landing path for a role after login.
func HomePath(role string) string {
	switch {
	case IsStaff(role):
		return "/dashboard"
	case role == RoleSystemAdmin:
		return "/system-admin"
	case role == RoleCollector:
		return "/collector"
	default:
		return "/portal"
	}
}
