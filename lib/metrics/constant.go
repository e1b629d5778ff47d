package metrics

const (
	Namespace       = "devoter"
	EscrowSubsystem = "escrow"
	VoteSubsystem   = "vote"
	APISubsystem    = "api"
)
