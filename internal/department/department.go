package department

// Faculty and maintenance departments are disjoint closed sets. A user's
// department must belong to the set matching their role, so a role change
// always forces the department to be revalidated.

var Faculty = []string{
	"CSD", "CSM", "CSC", "CSE", "ECE", "IT", "EEE", "MECH", "CIVIL", "CHEM", "ADMIN",
}

var Maintenance = []string{
	"Electrical", "IT & Network", "Carpentry", "Sanitary & Plumbing", "Housekeeping", "Maintenance", "Other",
}

func IsFaculty(dept string) bool {
	return contains(Faculty, dept)
}

func IsMaintenance(dept string) bool {
	return contains(Maintenance, dept)
}

func contains(set []string, value string) bool {
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}
