package session

import "time"

// OutputAssignment records which workspace ordinal an output was last
// showing, so a restart can re-create the Display/Workspace skeleton of the
// frame tree before any surface reattaches. It never records a frames.Handle
// directly: handles are process-local arena addresses that do not survive a
// restart, so the ordinal is the durable unit of "shape".
type OutputAssignment struct {
	// OutputID is perceptron.OutputId stored as its underlying uint32, the
	// table's primary key.
	OutputID uint32 `gorm:"primaryKey"`

	// WorkspaceIndex is the ordinal position of the workspace the output
	// was last attached to, among the workspaces AddOutput created for it.
	WorkspaceIndex int

	UpdatedAt time.Time
}

// AllModels returns every GORM model this package persists, for AutoMigrate.
func AllModels() []any {
	return []any{
		&OutputAssignment{},
	}
}
