package memory

// Error messages
const (
	ErrMsgDuplicateKey = "duplicate key"
)
