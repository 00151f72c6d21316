package model

// CheckpointID identifies a single checkpoint in the hunt.
// Valid ids are positive; they need not be contiguous.
type CheckpointID int

// Valid reports whether the id is in the accepted range
func (id CheckpointID) Valid() bool {
	return id > 0
}

// Checkpoint is one entry in the hunt's secret manifest
type Checkpoint struct {
	ID CheckpointID
	// Name is an operator-facing label; it plays no part in matching
	Name       string
	Passphrase string
}
