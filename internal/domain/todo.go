package domain

// Todo is a single item on the todo list.
type Todo struct {
	ID          string
	Text        string
	Completed   bool
	CompletedAt *int64 // epoch milliseconds, set only while Completed is true
}

// TodoUpdate is the normalized set of fields applied by an update.
// Text is nil when the client did not send one.
type TodoUpdate struct {
	Text        *string
	Completed   bool
	CompletedAt *int64
}
