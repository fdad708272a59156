// internal/domain/models/courses.go
package models

// Course is a degree program an organization or user is affiliated with.
type Course struct {
	Value string // The value stored in the database
	Label string // Short label for clients
}

// AllCourses lists the programs the campus currently recognizes.
var AllCourses = []Course{
	{Value: "BS Civil Engineering", Label: "BSCE"},
	{Value: "BS Information Technology", Label: "BSIT"},
	{Value: "BS Computer Science", Label: "BSCS"},
	{Value: "BS Food Technology", Label: "BSFT"},
}

// IsValidCourse checks if a value is one of AllCourses.
func IsValidCourse(value string) bool {
	for _, c := range AllCourses {
		if c.Value == value {
			return true
		}
	}
	return false
}

// CourseValues returns just the stored values of AllCourses.
func CourseValues() []string {
	values := make([]string, len(AllCourses))
	for i, c := range AllCourses {
		values[i] = c.Value
	}
	return values
}
