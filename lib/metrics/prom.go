package metrics

func InitPrometheusMetrics() {
	Escrow = PromEscrowMetrics()
	Vote = PromVoteMetrics()
	API = PromAPIMetrics()
}
