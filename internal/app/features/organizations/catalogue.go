// internal/app/features/organizations/catalogue.go
package organizations

// catalogueEntry is one built-in organization created by seeding.
type catalogueEntry struct {
	Name        string
	Course      string
	Description string
}

var catalogue = []catalogueEntry{
	{"Structural Innovators", "BS Civil Engineering", "Premier organization for structural analysis and design enthusiasts."},
	{"Building Innovators", "BS Civil Engineering", "Premier organization for structural analysis and design enthusiasts."},
	{"NetAdmin Squad", "BS Information Technology", "Network administration, security, and cloud infrastructure."},
	{"Algorithm Aces", "BS Computer Science", "Deep dive into data structures, algorithms, and AI."},
	{"Food Safety Net", "BS Food Technology", "Ensuring quality and safety in food production."},
}
