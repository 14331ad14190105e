package rbac

import (
	"sort"
	"time"
)

type Role string

const (
	RoleSuperadmin   Role = "superadmin"
	RoleAdmin        Role = "admin"
	RoleDoctor       Role = "doctor"
	RoleReceptionist Role = "receptionist"
	RoleStoreKeeper  Role = "store_keeper"
	RoleAccountant   Role = "accountant"
	RoleStaff        Role = "staff"
)

var AllRoles = []Role{
	RoleSuperadmin,
	RoleAdmin,
	RoleDoctor,
	RoleReceptionist,
	RoleStoreKeeper,
	RoleAccountant,
	RoleStaff,
}

func (r Role) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// IsAdmin: admin y superadmin no pasan por role_permissions.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperadmin
}

// Module es el área de la aplicación sobre la que se otorgan permisos.
type Module string

const (
	ModuleDashboard        Module = "dashboard"
	ModuleOwners           Module = "owners"
	ModulePets             Module = "pets"
	ModuleAdmissions       Module = "admissions"
	ModuleDonations        Module = "donations"
	ModuleDonors           Module = "donors"
	ModuleBuildings        Module = "buildings"
	ModuleRooms            Module = "rooms"
	ModuleCages            Module = "cages"
	ModuleStaff            Module = "staff"
	ModuleStaffTypes       Module = "staff_types"
	ModuleRoles            Module = "roles"
	ModuleMedicines        Module = "medicines"
	ModuleTreatments       Module = "treatments"
	ModulePetTypes         Module = "pet_types"
	ModulePurchaseOrders   Module = "purchase_orders"
	ModuleInventory        Module = "inventory"
	ModuleDoctorDashboard  Module = "doctor_dashboard"
	ModuleTreatmentHistory Module = "treatment_history"
	ModuleBilling          Module = "billing"
)

var AllModules = []Module{
	ModuleDashboard,
	ModuleOwners,
	ModulePets,
	ModuleAdmissions,
	ModuleDonations,
	ModuleDonors,
	ModuleBuildings,
	ModuleRooms,
	ModuleCages,
	ModuleStaff,
	ModuleStaffTypes,
	ModuleRoles,
	ModuleMedicines,
	ModuleTreatments,
	ModulePetTypes,
	ModulePurchaseOrders,
	ModuleInventory,
	ModuleDoctorDashboard,
	ModuleTreatmentHistory,
	ModuleBilling,
}

func (m Module) Valid() bool {
	for _, known := range AllModules {
		if m == known {
			return true
		}
	}
	return false
}

type PermissionType string

const (
	PermView   PermissionType = "view"
	PermAdd    PermissionType = "add"
	PermEdit   PermissionType = "edit"
	PermDelete PermissionType = "delete"
)

var AllPermissionTypes = []PermissionType{PermView, PermAdd, PermEdit, PermDelete}

func (p PermissionType) Valid() bool {
	switch p {
	case PermView, PermAdd, PermEdit, PermDelete:
		return true
	default:
		return false
	}
}

// Grant es una fila de role_permissions: su presencia otorga, su ausencia niega.
type Grant struct {
	Role       Role
	Module     Module
	Permission PermissionType
}

type ModulePermission struct {
	Module     Module         `json:"module"`
	Permission PermissionType `json:"permission"`
}

type UserRole struct {
	UserID    string
	Role      Role
	CreatedAt time.Time
}

// PermissionSet es el resultado de resolver permisos para un usuario.
// El valor cero no otorga nada.
type PermissionSet struct {
	UserID string
	Roles  []Role
	All    bool

	grants map[ModulePermission]struct{}
}

func NewPermissionSet(userID string, roles []Role, grants []Grant) PermissionSet {
	set := PermissionSet{
		UserID: userID,
		Roles:  dedupRoles(roles),
		grants: map[ModulePermission]struct{}{},
	}
	for _, r := range set.Roles {
		if r.IsAdmin() {
			set.All = true
		}
	}
	if set.All {
		return set
	}
	for _, g := range grants {
		set.grants[ModulePermission{Module: g.Module, Permission: g.Permission}] = struct{}{}
	}
	return set
}

func (p PermissionSet) Can(module Module, perm PermissionType) bool {
	if p.All {
		return true
	}
	_, ok := p.grants[ModulePermission{Module: module, Permission: perm}]
	return ok
}

func (p PermissionSet) CanView(module Module) bool   { return p.Can(module, PermView) }
func (p PermissionSet) CanAdd(module Module) bool    { return p.Can(module, PermAdd) }
func (p PermissionSet) CanEdit(module Module) bool   { return p.Can(module, PermEdit) }
func (p PermissionSet) CanDelete(module Module) bool { return p.Can(module, PermDelete) }

func (p PermissionSet) HasRole(role Role) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (p PermissionSet) IsAdmin() bool {
	for _, r := range p.Roles {
		if r.IsAdmin() {
			return true
		}
	}
	return false
}

// Granted lista los permisos explícitos en orden estable (vacío si All).
func (p PermissionSet) Granted() []ModulePermission {
	out := make([]ModulePermission, 0, len(p.grants))
	for mp := range p.grants {
		out = append(out, mp)
	}
	sortModulePermissions(out)
	return out
}

func sortModulePermissions(in []ModulePermission) {
	sort.Slice(in, func(i, j int) bool {
		if in[i].Module != in[j].Module {
			return in[i].Module < in[j].Module
		}
		return in[i].Permission < in[j].Permission
	})
}

func dedupRoles(in []Role) []Role {
	seen := map[Role]struct{}{}
	out := make([]Role, 0, len(in))
	for _, r := range in {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
