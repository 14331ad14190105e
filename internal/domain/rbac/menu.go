package rbac

// MenuItem es una entrada de navegación del frontend.
type MenuItem struct {
	Key        string `json:"key"`
	Label      string `json:"label"`
	Path       string `json:"path"`
	Module     Module `json:"module"`
	DoctorOnly bool   `json:"doctor_only,omitempty"`
}

var menu = []MenuItem{
	{Key: "dashboard", Label: "Dashboard", Path: "/dashboard", Module: ModuleDashboard},
	{Key: "owners", Label: "Owners", Path: "/owners", Module: ModuleOwners},
	{Key: "pets", Label: "Pets", Path: "/pets", Module: ModulePets},
	{Key: "admissions", Label: "Admissions", Path: "/admissions", Module: ModuleAdmissions},
	{Key: "doctor_dashboard", Label: "Doctor Dashboard", Path: "/doctor", Module: ModuleDoctorDashboard, DoctorOnly: true},
	{Key: "treatment_history", Label: "Treatment History", Path: "/treatment-history", Module: ModuleTreatmentHistory, DoctorOnly: true},
	{Key: "buildings", Label: "Buildings", Path: "/buildings", Module: ModuleBuildings},
	{Key: "rooms", Label: "Rooms", Path: "/rooms", Module: ModuleRooms},
	{Key: "cages", Label: "Cages", Path: "/cages", Module: ModuleCages},
	{Key: "donations", Label: "Donations", Path: "/donations", Module: ModuleDonations},
	{Key: "donors", Label: "Donors", Path: "/donors", Module: ModuleDonors},
	{Key: "billing", Label: "Billing", Path: "/bills", Module: ModuleBilling},
	{Key: "medicines", Label: "Medicines", Path: "/medicines", Module: ModuleMedicines},
	{Key: "inventory", Label: "Inventory", Path: "/inventory", Module: ModuleInventory},
	{Key: "purchase_orders", Label: "Purchase Orders", Path: "/purchase-orders", Module: ModulePurchaseOrders},
	{Key: "treatments", Label: "Treatments", Path: "/treatments", Module: ModuleTreatments},
	{Key: "pet_types", Label: "Pet Types", Path: "/pet-types", Module: ModulePetTypes},
	{Key: "staff", Label: "Staff", Path: "/staff", Module: ModuleStaff},
	{Key: "staff_types", Label: "Staff Types", Path: "/staff-types", Module: ModuleStaffTypes},
	{Key: "roles", Label: "Roles & Permissions", Path: "/roles", Module: ModuleRoles},
}

// Menu filtra por permiso view. Las entradas de doctor además piden el rol doctor (o admin).
func Menu(set PermissionSet) []MenuItem {
	out := make([]MenuItem, 0, len(menu))
	for _, item := range menu {
		if !set.CanView(item.Module) {
			continue
		}
		if item.DoctorOnly && !set.IsAdmin() && !set.HasRole(RoleDoctor) {
			continue
		}
		out = append(out, item)
	}
	return out
}
