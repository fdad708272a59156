package fanout

// AcademicPostMessage announces a new academic post.
func AcademicPostMessage(title string) string {
	return "New Academic Post: " + title
}

// EventPostMessage announces a new event.
func EventPostMessage(eventName string) string {
	return "New Event: " + eventName
}

// CommentMessage tells a post author someone commented.
func CommentMessage(commenter string) string {
	return commenter + " commented on your post."
}

// WitnessMessage tells a report owner someone vouched for it.
func WitnessMessage(witness string) string {
	return witness + " vouched as a witness on your report."
}

// ReminderMessage is the SYSTEM reminder sent an hour before an event.
func ReminderMessage(eventName, location string) string {
	return "Reminder: \"" + eventName + "\" starts in 1 hour at " + location + "."
}
