package auth

// Known OAuth scopes used by the habit service.
const (
	ScopeHabitsWrite = "habits:write"
	ScopeHabitsRead  = "habits:read"
)
