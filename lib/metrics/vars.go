package metrics

var (
	Escrow = NopEscrowMetrics()
	Vote   = NopVoteMetrics()
	API    = NopAPIMetrics()
)
