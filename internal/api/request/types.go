package request

// ClaimRequest is the request body for claiming a checkpoint
type ClaimRequest struct {
	CheckpointID int    `json:"checkpoint_id"`
	Passphrase   string `json:"passphrase"`
}
